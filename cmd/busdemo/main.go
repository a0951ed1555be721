// busdemo is a small diagnostic CLI over the message bus's public API: it
// registers a demo handler set and emits one message of the requested
// category, printing the observed visit trace. It carries no persistence
// and no network surface — every emission goes through the same
// in-process API any other caller would use.
package main

import (
	"fmt"
	"os"

	"github.com/wallstop/dxmessaging/cmd/busdemo/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
