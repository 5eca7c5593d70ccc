// Command entrait expands #[entrait] annotated Rust items into traits and
// delegating implementations.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var r reported
		if !errors.As(err, &r) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
