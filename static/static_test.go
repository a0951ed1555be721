package static

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wallstop/dxmessaging/commbus"
	"github.com/wallstop/dxmessaging/prioritized"
)

func TestReset_RestoresDocumentedDefaults(t *testing.T) {
	Reset(Config{})

	assert.False(t, DiagnosticsEnabled())
	assert.Nil(t, LogBuffer())
	assert.Equal(t, -1, SequenceIndex())
	assert.Equal(t, uint64(1), uint64(NextHandle())) // counter restarts at 1 after reset
}

func TestReset_DiagnosticsBufferReceivesLoggedLines(t *testing.T) {
	Reset(Config{DiagnosticsEnabled: true, BufferSize: 8})
	Logger().Error("something_bad", "key", "value")

	assert.Equal(t, 0, SequenceIndex())
	buf := LogBuffer()
	if assert.NotNil(t, buf) {
		assert.Equal(t, 1, buf.Len())
		assert.Contains(t, buf.Items()[0], "something_bad")
	}
}

func TestReset_DiagnosticsDisabledDoesNotBuffer(t *testing.T) {
	Reset(Config{})
	Logger().Error("ignored")

	assert.Equal(t, -1, SequenceIndex())
	assert.Nil(t, LogBuffer())
}

func TestReset_ReplacesGlobalBus(t *testing.T) {
	Reset(Config{})
	before := Bus()
	Reset(Config{})
	after := Bus()

	assert.NotSame(t, before, after)
}

func TestReset_DiagnosticsBufferHonorsSize(t *testing.T) {
	Reset(Config{DiagnosticsEnabled: true, BufferSize: 4})
	buf := LogBuffer()
	if assert.NotNil(t, buf) {
		assert.Equal(t, 4, buf.Capacity())
	}
}

func TestNextHandle_MonotonicWithinOneReset(t *testing.T) {
	Reset(Config{})
	first := NextHandle()
	second := NextHandle()
	assert.Less(t, uint64(first), uint64(second))
}

func TestNextSyntheticOwner_DistinctValues(t *testing.T) {
	Reset(Config{})
	a := NextSyntheticOwner()
	b := NextSyntheticOwner()
	assert.NotEqual(t, a, b)
}

func TestDefaultConfig_EnablesGlobalAcceptAll(t *testing.T) {
	assert.True(t, DefaultConfig().GlobalAcceptAllEnabled)
	assert.False(t, Config{}.GlobalAcceptAllEnabled)
}

func TestReset_GlobalAcceptAllEnabledGatesDispatch(t *testing.T) {
	Reset(Config{GlobalAcceptAllEnabled: false})
	var fired bool
	commbus.RegisterGlobalAcceptAll(Bus(), NextSyntheticOwner(), prioritized.Action, 0, commbus.GlobalAcceptAllCallbacks{
		Untargeted: func(msg any) { fired = true },
	})
	commbus.UntargetedBroadcast(Bus(), &commbus.PingMessage{})
	assert.False(t, fired, "GlobalAcceptAllEnabled=false must suppress the stage even with a live registration")

	Reset(DefaultConfig())
	commbus.RegisterGlobalAcceptAll(Bus(), NextSyntheticOwner(), prioritized.Action, 0, commbus.GlobalAcceptAllCallbacks{
		Untargeted: func(msg any) { fired = true },
	})
	commbus.UntargetedBroadcast(Bus(), &commbus.PingMessage{})
	assert.True(t, fired, "DefaultConfig must leave GlobalAcceptAll enabled")
}
