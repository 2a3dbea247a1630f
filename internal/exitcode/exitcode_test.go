package exitcode_test

import (
	"errors"
	"flag"
	"fmt"
	"testing"

	"github.com/hoistpack/hoistpack/internal/exitcode"
)

type codedError struct{ code int }

func (e codedError) Error() string { return "coded" }

func (e codedError) ExitCode() int { return e.code }

func TestGet(t *testing.T) {
	testCases := map[string]struct {
		error
		int
	}{
		"nil":     {nil, 0},
		"default": {errors.New(""), 1},
		"help":    {flag.ErrHelp, 2},
		"coder":   {codedError{3}, 3},
		"wrapped": {fmt.Errorf("wrapping: %w", codedError{4}), 4},
		"printed": {exitcode.Printed, 1},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := tc.error
			want := tc.int
			got := exitcode.Get(err)
			if got != want {
				t.Errorf("%v: %d != %d", err, got, want)
			}
		})
	}
}

func TestPrintedIsSilent(t *testing.T) {
	if msg := exitcode.Printed.Error(); msg != "" {
		t.Errorf("message %q, want empty", msg)
	}
}
