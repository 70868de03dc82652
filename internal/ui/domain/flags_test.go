package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShowAnnouncement(t *testing.T) {
	tests := []struct {
		flags Flags
		want  bool
	}{
		{Flags{}, true},
		{Flags{IsCartOpen: true}, false},
		{Flags{IsNavOpen: true}, false},
		{Flags{IsCartOpen: true, IsNavOpen: true}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.flags.ShowAnnouncement(), "%+v", tt.flags)
	}
}
