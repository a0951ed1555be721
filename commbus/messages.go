// Package commbus message definitions.
//
// These are small illustrative payload types used by the package's own
// tests and by cmd/busdemo. The bus itself is payload-agnostic: any Go
// type can be emitted, there is no Message interface to implement (see
// msgtype.Of, which assigns a dense type id to any type parameter on
// first use).
package commbus

// DamageMessage models a hit applied to some owner. Fast handlers can
// reduce Amount before it reaches later stages in the pipeline.
type DamageMessage struct {
	Amount int
	Source string
}

// HealMessage models restored health.
type HealMessage struct {
	Amount int
}

// PingMessage is a minimal untargeted payload, useful for ordering tests
// where the content of the message doesn't matter.
type PingMessage struct {
	Seq int
}

// AnnounceMessage models a broadcast with no particular target, observed
// by every listener registered WithoutSource as well as those keyed to
// the emitting source.
type AnnounceMessage struct {
	Text string
}
