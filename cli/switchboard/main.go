package main

import (
	"fmt"
	"os"

	switchboardcmder "github.com/papercomputeco/switchboard/cmd/switchboard"
	"github.com/papercomputeco/switchboard/pkg/cliui"
)

func main() {
	cmd := switchboardcmder.NewSwitchboardCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", cliui.FailMark, err)
		os.Exit(1)
	}
}
