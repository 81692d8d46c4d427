package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/auditgate/cmd/cli"
	"github.com/temirov/auditgate/internal/audit"
)

const (
	exitErrorTemplateConstant = "%v\n"
	exitCodeFailureConstant   = 1
)

// main executes the auditgate command-line application.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	var unrecognizedFindingsError audit.UnrecognizedFindingsError
	if !errors.As(executionError, &unrecognizedFindingsError) {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(exitCodeFailureConstant)
}
