package mq

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer(KafkaConfig{})
	assert.Error(t, err)
}

func TestNewWriterBatchTimeout(t *testing.T) {
	tests := []struct {
		name string
		ms   int
		want time.Duration
	}{
		{"default", 0, defaultBatchTimeout},
		{"configured", 25, 25 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWriter(KafkaConfig{Brokers: []string{"127.0.0.1:9092"}, MaxRetries: 3, RetryBackoff: 100, BatchTimeout: tt.ms})
			assert.Equal(t, tt.want, w.BatchTimeout)
			assert.Less(t, w.BatchTimeout, time.Second)
			assert.Equal(t, 3, w.MaxAttempts)
			assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
		})
	}

	p, err := NewProducer(KafkaConfig{Brokers: []string{"127.0.0.1:9092"}})
	require.NoError(t, err)
	assert.Equal(t, defaultBatchTimeout, p.writer.BatchTimeout)
	require.NoError(t, p.Close())
}
