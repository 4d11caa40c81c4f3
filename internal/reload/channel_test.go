package reload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel_FanOut(t *testing.T) {
	c := NewChannel()
	a, cancelA := c.Subscribe()
	b, cancelB := c.Subscribe()
	defer cancelB()

	assert.Equal(t, 2, c.Notify(Notification{Kind: CSS, Rule: "styles"}))
	assert.Equal(t, Notification{Kind: CSS, Rule: "styles"}, <-a)
	assert.Equal(t, Notification{Kind: CSS, Rule: "styles"}, <-b)

	cancelA()
	cancelA()
	_, ok := <-a
	assert.False(t, ok, "cancelled subscription is closed")

	assert.Equal(t, 1, c.Notify(Notification{Kind: Full}))
	assert.Equal(t, Full, (<-b).Kind)
}

func TestChannel_NotifyNeverBlocks(t *testing.T) {
	c := NewChannel()
	sub, cancel := c.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		c.Notify(Notification{Kind: Full})
	}
	assert.Len(t, sub, subscriberBuffer)
}

func TestChannel_Close(t *testing.T) {
	c := NewChannel()
	sub, cancel := c.Subscribe()
	c.Close()
	c.Close()
	cancel()

	_, ok := <-sub
	assert.False(t, ok)
	assert.Zero(t, c.Notify(Notification{}))

	late, _ := c.Subscribe()
	_, ok = <-late
	require.False(t, ok)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "reload", Full.Event())
	assert.Equal(t, "css", CSS.Event())
	assert.Equal(t, "css", CSS.String())
}
