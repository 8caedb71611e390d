// Package main provides the entry point for vpsim.
// vpsim is a trace-driven value and branch predictor simulator.
//
// For the full CLI, use: go run ./cmd/vpsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("vpsim - Value and Branch Predictor Simulator")
	fmt.Println("")
	fmt.Println("Usage: vpsim run [options] <trace>...")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  run        Simulate traces and print the report")
	fmt.Println("  convert    Convert a text trace to the binary format")
	fmt.Println("  reports    List or show stored results")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/vpsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/vpsim' instead.")
	}
}
