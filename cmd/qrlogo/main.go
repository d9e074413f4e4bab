// Command qrlogo renders QR codes with an optional circular logo from the
// command line, using the same pipeline as the web form.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
