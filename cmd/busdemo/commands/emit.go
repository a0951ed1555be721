package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wallstop/dxmessaging/busid"
	"github.com/wallstop/dxmessaging/commbus"
	"github.com/wallstop/dxmessaging/prioritized"
)

// emitCmd is the parent for the three demo emission categories.
var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Emit a demo message and print the observed visit trace",
}

var emitUntargetedCmd = &cobra.Command{
	Use:   "untargeted",
	Short: "Emit an untargeted demo message",
	RunE:  runEmitUntargeted,
}

var emitTargetedCmd = &cobra.Command{
	Use:   "targeted",
	Short: "Emit a targeted demo message",
	RunE:  runEmitTargeted,
}

var emitBroadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "Emit a broadcast demo message",
	RunE:  runEmitBroadcast,
}

func init() {
	emitCmd.AddCommand(emitUntargetedCmd)
	emitCmd.AddCommand(emitTargetedCmd)
	emitCmd.AddCommand(emitBroadcastCmd)
}

// newDemoTrace returns a fresh, empty bus and an empty trace. Each
// runEmit* function then registers its own demo set (one interceptor, one
// GlobalAcceptAll entry, the category's handlers, and one post-processor),
// each appending a label to trace.
func newDemoTrace() (*commbus.Bus, *[]string) {
	bus := commbus.New(nil, nil)
	trace := &[]string{}
	return bus, trace
}

func printTrace(category string, trace []string) {
	fmt.Printf("%s emission visit trace:\n", category)
	for i, step := range trace {
		fmt.Printf("  %d. %s\n", i+1, step)
	}
}

func runEmitUntargeted(cmd *cobra.Command, args []string) error {
	bus, tracePtr := newDemoTrace()

	commbus.RegisterUntargetedInterceptor[commbus.PingMessage](bus, busid.None, 0, func(m *commbus.PingMessage) bool {
		*tracePtr = append(*tracePtr, "interceptor")
		return true
	})
	commbus.RegisterGlobalAcceptAll(bus, busid.None, prioritized.Action, 0, commbus.GlobalAcceptAllCallbacks{
		Untargeted: func(msg any) { *tracePtr = append(*tracePtr, "global_accept_all") },
	})
	commbus.RegisterUntargeted[commbus.PingMessage](bus, busid.None, prioritized.Action, 0, func(m commbus.PingMessage) {
		*tracePtr = append(*tracePtr, "handler")
	})
	commbus.RegisterUntargetedPostProcessor[commbus.PingMessage](bus, busid.None, prioritized.Action, 0, func(m commbus.PingMessage) {
		*tracePtr = append(*tracePtr, "post_processor")
	})

	commbus.UntargetedBroadcast(bus, &commbus.PingMessage{Seq: 1})
	printTrace("untargeted", *tracePtr)
	return nil
}

func runEmitTargeted(cmd *cobra.Command, args []string) error {
	bus, tracePtr := newDemoTrace()
	target := busid.InstanceId(1)

	commbus.RegisterTargetedInterceptor[commbus.DamageMessage](bus, busid.None, 0, func(target *busid.InstanceId, m *commbus.DamageMessage) bool {
		*tracePtr = append(*tracePtr, "interceptor")
		return true
	})
	commbus.RegisterGlobalAcceptAll(bus, busid.None, prioritized.Action, 0, commbus.GlobalAcceptAllCallbacks{
		Targeted: func(key busid.InstanceId, msg any) { *tracePtr = append(*tracePtr, "global_accept_all") },
	})
	commbus.RegisterTargetedByTarget[commbus.DamageMessage](bus, busid.None, target, prioritized.Action, 0, func(key busid.InstanceId, m commbus.DamageMessage) {
		*tracePtr = append(*tracePtr, "handler_by_target")
	})
	commbus.RegisterTargetedWithoutTargeting[commbus.DamageMessage](bus, busid.None, prioritized.Action, 0, func(key busid.InstanceId, m commbus.DamageMessage) {
		*tracePtr = append(*tracePtr, "handler_without_targeting")
	})
	commbus.RegisterTargetedPostProcessor[commbus.DamageMessage](bus, busid.None, target, prioritized.Action, 0, func(key busid.InstanceId, m commbus.DamageMessage) {
		*tracePtr = append(*tracePtr, "post_processor")
	})

	commbus.TargetedBroadcast(bus, &target, &commbus.DamageMessage{Amount: 10, Source: "busdemo"})
	printTrace("targeted", *tracePtr)
	return nil
}

func runEmitBroadcast(cmd *cobra.Command, args []string) error {
	bus, tracePtr := newDemoTrace()
	source := busid.InstanceId(9)

	commbus.RegisterBroadcastInterceptor[commbus.AnnounceMessage](bus, busid.None, 0, func(source *busid.InstanceId, m *commbus.AnnounceMessage) bool {
		*tracePtr = append(*tracePtr, "interceptor")
		return true
	})
	commbus.RegisterGlobalAcceptAll(bus, busid.None, prioritized.Action, 0, commbus.GlobalAcceptAllCallbacks{
		Broadcast: func(key busid.InstanceId, msg any) { *tracePtr = append(*tracePtr, "global_accept_all") },
	})
	commbus.RegisterBroadcastBySource[commbus.AnnounceMessage](bus, busid.None, source, prioritized.Action, 0, func(key busid.InstanceId, m commbus.AnnounceMessage) {
		*tracePtr = append(*tracePtr, "handler_by_source")
	})
	commbus.RegisterBroadcastWithoutSource[commbus.AnnounceMessage](bus, busid.None, prioritized.Action, 0, func(key busid.InstanceId, m commbus.AnnounceMessage) {
		*tracePtr = append(*tracePtr, "handler_without_source")
	})
	commbus.RegisterBroadcastPostProcessor[commbus.AnnounceMessage](bus, busid.None, source, prioritized.Action, 0, func(key busid.InstanceId, m commbus.AnnounceMessage) {
		*tracePtr = append(*tracePtr, "post_processor")
	})

	commbus.BroadcastBroadcast(bus, &source, &commbus.AnnounceMessage{Text: "hello from busdemo"})
	printTrace("broadcast", *tracePtr)
	return nil
}
