package commbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallstop/dxmessaging/busid"
	"github.com/wallstop/dxmessaging/prioritized"
)

func newTestBus() *Bus {
	return New(nil, nil)
}

// S1: Register F1 (Fast, prio 0), then A1 (Action, prio 0), then A2
// (Action, prio 0). Emit M. Expected trace: [F1, A1, A2].
func TestBus_S1_UntargetedMixed(t *testing.T) {
	b := newTestBus()
	var trace []string

	RegisterUntargeted[PingMessage](b, busid.None, prioritized.Fast, 0, func(m *PingMessage) { trace = append(trace, "F1") })
	RegisterUntargeted[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) { trace = append(trace, "A1") })
	RegisterUntargeted[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) { trace = append(trace, "A2") })

	UntargetedBroadcast(b, &PingMessage{Seq: 1})

	assert.Equal(t, []string{"F1", "A1", "A2"}, trace)
}

// S2: interceptors I0(prio0), I1(prio1); one GlobalAcceptAll untargeted
// action G; one handler H; one post-processor P. Expected: [I0, I1, G, H, P].
func TestBus_S2_FullPipelineUntargeted(t *testing.T) {
	b := newTestBus()
	var trace []string

	RegisterUntargetedInterceptor[PingMessage](b, busid.None, 0, func(m *PingMessage) bool {
		trace = append(trace, "I0")
		return true
	})
	RegisterUntargetedInterceptor[PingMessage](b, busid.None, 1, func(m *PingMessage) bool {
		trace = append(trace, "I1")
		return true
	})
	RegisterGlobalAcceptAll(b, busid.None, prioritized.Action, 0, GlobalAcceptAllCallbacks{
		Untargeted: func(msg any) { trace = append(trace, "G") },
	})
	RegisterUntargeted[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) { trace = append(trace, "H") })
	RegisterUntargetedPostProcessor[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) { trace = append(trace, "P") })

	UntargetedBroadcast(b, &PingMessage{})

	assert.Equal(t, []string{"I0", "I1", "G", "H", "P"}, trace)
}

// S3: Handler H and post-processor P registered; then a cancelling
// interceptor IC; then a later (higher-priority) interceptor IL. Expected
// trace: [IC] only.
func TestBus_S3_InterceptorCancel(t *testing.T) {
	b := newTestBus()
	var trace []string

	RegisterUntargeted[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) { trace = append(trace, "H") })
	RegisterUntargetedPostProcessor[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) { trace = append(trace, "P") })
	RegisterUntargetedInterceptor[PingMessage](b, busid.None, 0, func(m *PingMessage) bool {
		trace = append(trace, "IC")
		return false
	})
	RegisterUntargetedInterceptor[PingMessage](b, busid.None, 1, func(m *PingMessage) bool {
		trace = append(trace, "IL")
		return true
	})

	UntargetedBroadcast(b, &PingMessage{})

	assert.Equal(t, []string{"IC"}, trace)
}

// S4: Owner O1 registers ByTarget(T1) -> h1; owner O2 registers
// ByTarget(T2) -> h2. Emit to T1. h1 runs once, h2 does not.
func TestBus_S4_TargetedIsolation(t *testing.T) {
	b := newTestBus()
	t1, t2 := busid.InstanceId(1), busid.InstanceId(2)
	var h1Count, h2Count int

	RegisterTargetedByTarget[PingMessage](b, busid.None, t1, prioritized.Action, 0, func(key busid.InstanceId, m PingMessage) { h1Count++ })
	RegisterTargetedByTarget[PingMessage](b, busid.None, t2, prioritized.Action, 0, func(key busid.InstanceId, m PingMessage) { h2Count++ })

	target := t1
	TargetedBroadcast(b, &target, &PingMessage{})

	assert.Equal(t, 1, h1Count)
	assert.Equal(t, 0, h2Count)
}

// S5: 6 handlers registered; handler #0 registers a 7th during its
// invocation. First emission: 6 calls. Second emission: 7 calls.
func TestBus_S5_SnapshotAdd(t *testing.T) {
	b := newTestBus()
	var calls int

	RegisterUntargeted[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) {
		calls++
		RegisterUntargeted[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) { calls++ })
	})
	for i := 0; i < 5; i++ {
		RegisterUntargeted[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) { calls++ })
	}

	UntargetedBroadcast(b, &PingMessage{})
	assert.Equal(t, 6, calls)

	calls = 0
	UntargetedBroadcast(b, &PingMessage{})
	assert.Equal(t, 7, calls)
}

// S6: P0 Fast F0, P0 Action A0, P1 Fast F1, P1 Action A1. Expected trace:
// [F0, A0, F1, A1].
func TestBus_S6_TwoPrioritiesMixedModes(t *testing.T) {
	b := newTestBus()
	var trace []string

	RegisterUntargeted[PingMessage](b, busid.None, prioritized.Action, 1, func(m PingMessage) { trace = append(trace, "A1") })
	RegisterUntargeted[PingMessage](b, busid.None, prioritized.Fast, 1, func(m *PingMessage) { trace = append(trace, "F1") })
	RegisterUntargeted[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) { trace = append(trace, "A0") })
	RegisterUntargeted[PingMessage](b, busid.None, prioritized.Fast, 0, func(m *PingMessage) { trace = append(trace, "F0") })

	UntargetedBroadcast(b, &PingMessage{})

	assert.Equal(t, []string{"F0", "A0", "F1", "A1"}, trace)
}

// S7: Register one global entry; emit untargeted M. Counters:
// untargeted=1, targeted=0, broadcast=0.
func TestBus_S7_GlobalAcceptAllRouting(t *testing.T) {
	b := newTestBus()
	var untargeted, targeted, broadcast int

	RegisterGlobalAcceptAll(b, busid.None, prioritized.Action, 0, GlobalAcceptAllCallbacks{
		Untargeted: func(msg any) { untargeted++ },
		Targeted:   func(key busid.InstanceId, msg any) { targeted++ },
		Broadcast:  func(key busid.InstanceId, msg any) { broadcast++ },
	})

	UntargetedBroadcast(b, &PingMessage{})

	assert.Equal(t, 1, untargeted)
	assert.Equal(t, 0, targeted)
	assert.Equal(t, 0, broadcast)
}

// GlobalAcceptAll must honor Mode exactly like every other registration
// kind: Fast sees the live *M (and can mutate it), Action sees a
// dereferenced value copy (spec §3).
func TestBus_GlobalAcceptAllHonorsFastMode(t *testing.T) {
	b := newTestBus()
	var got *DamageMessage

	RegisterGlobalAcceptAll(b, busid.None, prioritized.Fast, 0, GlobalAcceptAllCallbacks{
		Untargeted: func(msg any) {
			m := msg.(*DamageMessage)
			m.Amount *= 2
			got = m
		},
	})

	msg := &DamageMessage{Amount: 5}
	UntargetedBroadcast(b, msg)

	require.Same(t, msg, got, "Fast GlobalAcceptAll must receive the live pointer")
	assert.Equal(t, 10, msg.Amount, "Fast GlobalAcceptAll must be able to mutate the message in place")
}

func TestBus_GlobalAcceptAllHonorsActionMode(t *testing.T) {
	b := newTestBus()
	var gotAmount int
	var gotIsPointer bool

	RegisterGlobalAcceptAll(b, busid.None, prioritized.Action, 0, GlobalAcceptAllCallbacks{
		Untargeted: func(msg any) {
			_, gotIsPointer = msg.(*DamageMessage)
			gotAmount = msg.(DamageMessage).Amount
		},
	})

	msg := &DamageMessage{Amount: 5}
	UntargetedBroadcast(b, msg)
	msg.Amount = 99 // mutating after emission must not affect what the Action callback already saw

	assert.False(t, gotIsPointer, "Action GlobalAcceptAll must receive a value copy, not a pointer")
	assert.Equal(t, 5, gotAmount)
}

func TestBus_WithoutTargetingReceivesEveryTarget(t *testing.T) {
	b := newTestBus()
	var count int
	RegisterTargetedWithoutTargeting[PingMessage](b, busid.None, prioritized.Action, 0, func(key busid.InstanceId, m PingMessage) { count++ })

	t1 := busid.InstanceId(1)
	t2 := busid.InstanceId(2)
	TargetedBroadcast(b, &t1, &PingMessage{})
	TargetedBroadcast(b, &t2, &PingMessage{})

	assert.Equal(t, 2, count)
}

func TestBus_WithoutSourceReceivesEverySource(t *testing.T) {
	b := newTestBus()
	var count int
	RegisterBroadcastWithoutSource[AnnounceMessage](b, busid.None, prioritized.Action, 0, func(key busid.InstanceId, m AnnounceMessage) { count++ })

	s1 := busid.InstanceId(1)
	s2 := busid.InstanceId(2)
	BroadcastBroadcast(b, &s1, &AnnounceMessage{})
	BroadcastBroadcast(b, &s2, &AnnounceMessage{})

	assert.Equal(t, 2, count)
}

func TestBus_HandleUniqueness(t *testing.T) {
	b := newTestBus()
	retracts := make([]RetractFunc, 0, 10)
	for i := 0; i < 10; i++ {
		retracts = append(retracts, RegisterUntargeted[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) {}))
	}
	require.Len(t, retracts, 10)
	// Each retract fn closes over a distinct *prioritized.Entry, so
	// retracting one must not affect the others' liveness.
	retracts[3]()
	assert.Equal(t, 9, b.RegisteredUntargeted())
}

func TestBus_IdempotentRetractLogsOverDeregistration(t *testing.T) {
	logger := &recordingBusLogger{}
	b := New(logger, nil)
	retract := RegisterUntargeted[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) {})

	retract()
	assert.Equal(t, 0, b.RegisteredUntargeted())
	retract()
	assert.Equal(t, 0, b.RegisteredUntargeted())
	assert.Equal(t, 1, logger.errorCount)
}

func TestBus_LifecycleCounters(t *testing.T) {
	b := newTestBus()
	retract := RegisterUntargeted[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) {})
	assert.Equal(t, 1, b.RegisteredUntargeted())
	retract()
	assert.Equal(t, 0, b.RegisteredUntargeted())
}

func TestBus_PrefreezeAtMostOncePerEmission(t *testing.T) {
	b := newTestBus()
	RegisterUntargeted[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) {})
	RegisterUntargetedPostProcessor[PingMessage](b, busid.None, prioritized.Action, 0, func(m PingMessage) {})
	RegisterUntargetedPostProcessor[PingMessage](b, busid.None, prioritized.Action, 1, func(m PingMessage) {})

	UntargetedBroadcast(b, &PingMessage{})
	assert.Equal(t, 1, PrefreezeCount[PingMessage](b))

	UntargetedBroadcast(b, &PingMessage{})
	assert.Equal(t, 2, PrefreezeCount[PingMessage](b))
}

func TestBus_EmittingUnregisteredTypeIsNoop(t *testing.T) {
	b := newTestBus()
	assert.NotPanics(t, func() { UntargetedBroadcast(b, &PingMessage{}) })
}

func TestBus_FastHandlerMutatesMessage(t *testing.T) {
	b := newTestBus()
	RegisterUntargeted[DamageMessage](b, busid.None, prioritized.Fast, 0, func(m *DamageMessage) { m.Amount *= 2 })

	msg := &DamageMessage{Amount: 5}
	UntargetedBroadcast(b, msg)

	assert.Equal(t, 10, msg.Amount)
}

type recordingBusLogger struct {
	errorCount int
}

func (l *recordingBusLogger) Trace(string, ...any) {}
func (l *recordingBusLogger) Debug(string, ...any) {}
func (l *recordingBusLogger) Info(string, ...any)  {}
func (l *recordingBusLogger) Warn(string, ...any)  {}
func (l *recordingBusLogger) Error(string, ...any) { l.errorCount++ }
