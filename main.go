// Package main is the entry point for the iexcap market data decoder.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/iexcap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
