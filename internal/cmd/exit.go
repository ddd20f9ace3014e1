// Package cmd implements the datlink CLI commands and Kong parser setup.
package cmd

import "errors"

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return "exit"
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// failure wraps err as a runtime failure.
func failure(err error) *ExitError {
	return &ExitError{Code: exitFailure, Err: err}
}

// usage wraps err as a command-line usage error.
func usage(err error) *ExitError {
	return &ExitError{Code: exitUsage, Err: err}
}

// ExitCode extracts the exit code from an error: 0 for nil, the embedded
// code for ExitError and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) && ee != nil {
		if ee.Code < 0 {
			return exitFailure
		}
		return ee.Code
	}
	return exitFailure
}

// exitPanic is used by the kong.Exit trick to intercept os.Exit calls.
type exitPanic struct{ code int }

// recoverExit turns an exitPanic raised by kong into an error.
func recoverExit(r any) (handled bool, err error) {
	ep, ok := r.(exitPanic)
	if !ok {
		return false, nil
	}

	if ep.code == exitOK {
		return true, nil
	}

	return true, &ExitError{Code: ep.code, Err: errors.New("exited")}
}
