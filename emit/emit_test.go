package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallstop/dxmessaging/busid"
	"github.com/wallstop/dxmessaging/commbus"
	"github.com/wallstop/dxmessaging/prioritized"
	"github.com/wallstop/dxmessaging/static"
)

func TestEmitUntargetedOn_ReachesRegisteredHandler(t *testing.T) {
	bus := commbus.New(nil, nil)
	var got commbus.PingMessage
	commbus.RegisterUntargeted[commbus.PingMessage](bus, busid.None, prioritized.Action, 0, func(m commbus.PingMessage) { got = m })

	EmitUntargetedOn(bus, &commbus.PingMessage{Seq: 7})
	assert.Equal(t, 7, got.Seq)
}

func TestEmitTargetedOn_RoutesByTarget(t *testing.T) {
	bus := commbus.New(nil, nil)
	target := busid.InstanceId(42)
	var fired bool
	commbus.RegisterTargetedByTarget[commbus.PingMessage](bus, busid.None, target, prioritized.Action, 0, func(key busid.InstanceId, m commbus.PingMessage) { fired = true })

	EmitTargetedOn(bus, &commbus.PingMessage{}, target)
	assert.True(t, fired)
}

func TestEmitBroadcastOn_RoutesBySource(t *testing.T) {
	bus := commbus.New(nil, nil)
	source := busid.InstanceId(7)
	var fired bool
	commbus.RegisterBroadcastBySource[commbus.AnnounceMessage](bus, busid.None, source, prioritized.Action, 0, func(key busid.InstanceId, m commbus.AnnounceMessage) { fired = true })

	EmitBroadcastOn(bus, &commbus.AnnounceMessage{}, source)
	assert.True(t, fired)
}

func TestEmitUntargeted_UsesGlobalBus(t *testing.T) {
	static.Reset(static.DefaultConfig())
	var fired bool
	commbus.RegisterUntargeted[commbus.PingMessage](static.Bus(), busid.None, prioritized.Action, 0, func(m commbus.PingMessage) { fired = true })

	EmitUntargeted(&commbus.PingMessage{})
	assert.True(t, fired)
}

type liveHost busid.InstanceId

func (h liveHost) ResolveInstanceId() (busid.InstanceId, bool) { return busid.InstanceId(h), true }

type deadHost struct{}

func (deadHost) ResolveInstanceId() (busid.InstanceId, bool) { return busid.None, false }

func TestEmitTargetedToHost_ResolvesLiveHost(t *testing.T) {
	bus := commbus.New(nil, nil)
	target := busid.InstanceId(5)
	var fired bool
	commbus.RegisterTargetedByTarget[commbus.PingMessage](bus, busid.None, target, prioritized.Action, 0, func(key busid.InstanceId, m commbus.PingMessage) { fired = true })

	err := EmitTargetedToHost(bus, &commbus.PingMessage{}, liveHost(target))
	require.NoError(t, err)
	assert.True(t, fired)
}

func TestEmitTargetedToHost_NilHostFailsWithoutCallingBus(t *testing.T) {
	bus := commbus.New(nil, nil)
	var fired bool
	commbus.RegisterUntargeted[commbus.PingMessage](bus, busid.None, prioritized.Action, 0, func(m commbus.PingMessage) { fired = true })

	err := EmitTargetedToHost[commbus.PingMessage](bus, &commbus.PingMessage{}, nil)
	require.Error(t, err)
	var busErr *commbus.BusError
	require.ErrorAs(t, err, &busErr)
	assert.Equal(t, commbus.InvalidTarget, busErr.Kind)
	assert.False(t, fired)
}

func TestEmitBroadcastFromHost_DeadHostFailsWithInvalidTarget(t *testing.T) {
	bus := commbus.New(nil, nil)
	var fired bool
	commbus.RegisterBroadcastWithoutSource[commbus.AnnounceMessage](bus, busid.None, prioritized.Action, 0, func(key busid.InstanceId, m commbus.AnnounceMessage) { fired = true })

	err := EmitBroadcastFromHost(bus, &commbus.AnnounceMessage{}, deadHost{})
	require.Error(t, err)
	assert.False(t, fired)
}
