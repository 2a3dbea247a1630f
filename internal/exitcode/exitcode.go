// Package exitcode maps the errors a command returns into process exit
// statuses.
package exitcode

import (
	"errors"
	"flag"
)

// Coder is implemented by errors that carry their own exit status.
type Coder interface {
	error
	ExitCode() int
}

// Printed reports a failure whose diagnostics were already written to
// stderr. It carries no message of its own, only a failing status.
var Printed error = printedError{}

type printedError struct{}

func (printedError) Error() string { return "" }

func (printedError) ExitCode() int { return 1 }

// Get returns the exit status for an error. Cases:
//
//	nil => 0
//	errors implementing Coder => value returned by ExitCode
//	flag.ErrHelp => 2
//	all other errors => 1
func Get(err error) int {
	if err == nil {
		return 0
	}

	if coder := Coder(nil); errors.As(err, &coder) {
		return coder.ExitCode()
	}

	if errors.Is(err, flag.ErrHelp) {
		return 2
	}

	return 1
}
