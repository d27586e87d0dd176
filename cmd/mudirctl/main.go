// Command mudirctl runs offline maintenance against the Mudir document:
// export, import, search, seed and clear, plus backup job triggers.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
