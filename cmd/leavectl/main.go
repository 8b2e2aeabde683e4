package main

import (
	"os"

	"github.com/cmlabs-hris/hris-leave-ledger/cmd/leavectl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
