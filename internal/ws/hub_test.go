package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPush_AbsentKeyIsNoOp(t *testing.T) {
	hub := NewHub()

	assert.NotPanics(t, func() {
		hub.Push("nobody", map[string]string{"event": "notification"})
	})
}

func TestRegisterAndUnregister(t *testing.T) {
	hub := NewHub()

	hub.Register("7", nil)
	assert.True(t, hub.Connected("7"))
	assert.False(t, hub.Connected("8"))

	hub.Unregister("7", nil)
	assert.False(t, hub.Connected("7"))
}

func TestRegister_ReplacesPreviousConnection(t *testing.T) {
	hub := NewHub()

	hub.Register("7", nil)
	hub.Register("7", nil)
	assert.True(t, hub.Connected("7"))

	hub.Unregister("7", nil)
	assert.False(t, hub.Connected("7"))
}

func TestPush_UnmarshalablePayloadIsDropped(t *testing.T) {
	hub := NewHub()
	hub.Register("7", nil)
	defer hub.Unregister("7", nil)

	assert.NotPanics(t, func() {
		hub.Push("7", make(chan int))
	})
}
