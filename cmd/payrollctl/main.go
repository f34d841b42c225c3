// Package main is the entry point for the payrollctl CLI.
package main

import (
	"os"

	"github.com/warp/payroll-ledger/cmd/payrollctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
