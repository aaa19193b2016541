// Command pdmix plays, simulates, replays and serves the mixed
// Gradual / Spiteful Prisoner's Dilemma policy.
package main

import (
	"errors"
	"fmt"
	"os"
)

// #region main
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// #endregion main

// #region exit-codes
const (
	exitRuntime = 1
	exitUsage   = 2
)

// usageError marks bad invocations; they exit with code 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

func exitCode(err error) int {
	var ue usageError
	if errors.As(err, &ue) {
		return exitUsage
	}
	return exitRuntime
}

// #endregion exit-codes
