package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinator(t *testing.T) {
	c := NewCoordinator()
	assert.True(t, c.Snapshot().ShowAnnouncement())

	c.SetCartOpen(true)
	assert.True(t, c.Snapshot().IsCartOpen)
	assert.False(t, c.Snapshot().ShowAnnouncement())

	c.SetCartOpen(false)
	c.SetNavOpen(true)
	assert.False(t, c.Snapshot().IsCartOpen)
	assert.False(t, c.Snapshot().ShowAnnouncement())

	c.SetNavOpen(false)
	assert.True(t, c.Snapshot().ShowAnnouncement())
}
