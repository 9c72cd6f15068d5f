package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/idilsaglam/quicklinks/internal/store"
	"github.com/idilsaglam/quicklinks/internal/ui"
)

// Exit codes: 0 ok, 1 runtime failure, 2 usage error or rejected input.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// usageError marks bad invocations and rejected input.
type usageError struct {
	msg  string
	hint string
}

func (e usageError) Error() string { return e.msg }

func errUsage(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func errUsageHint(hint, format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...), hint: hint}
}

// errRejected turns a Store rejection into a usage error.
func errRejected(op string, res store.Result) error {
	return errUsage("%s: %s", op, res.Outcome)
}

// Run executes the command line and returns an exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return run(ctx, newApp(), args, stdout, stderr)
}

func run(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) int {
	ui.SetOutput(stdout, stderr)
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.close()
	if err == nil {
		return ExitOK
	}

	ui.Fail(err.Error())
	var ue usageError
	switch {
	case errors.As(err, &ue):
		if ue.hint != "" {
			ui.Hint(ue.hint)
		}
		return ExitUsage
	case isCobraUsage(err):
		ui.Hint("Run `quicklinks --help` for usage.")
		return ExitUsage
	}
	return ExitFailure
}

// isCobraUsage recognizes the errors cobra raises for unknown commands
// and bad flags, which carry no type of their own.
func isCobraUsage(err error) bool {
	msg := err.Error()
	for _, p := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "flag needs an argument", "invalid argument", "accepts ", "requires at least"} {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}
