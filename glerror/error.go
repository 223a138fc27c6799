package glerror

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Chain collects every error found during one pass over the source.
type Chain struct {
	errors *multierror.Error
}

func (chain *Chain) Append(err error) {
	chain.errors = multierror.Append(chain.errors, err)
	chain.errors.ErrorFormat = lineFormat
}

func (chain *Chain) IsEmpty() bool {
	return chain.errors == nil || len(chain.errors.Errors) == 0
}

func (chain *Chain) Len() int {
	if chain.errors == nil {
		return 0
	}

	return len(chain.errors.Errors)
}

// ErrorOrNil returns nil for an empty chain so callers can use the usual
// err != nil check.
func (chain *Chain) ErrorOrNil() error {
	if chain.IsEmpty() {
		return nil
	}

	return chain.errors
}

func lineFormat(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}

	return strings.Join(lines, "\n")
}

type ScanError struct {
	Message string
	Line    int
}

func (se ScanError) Error() string {
	return fmt.Sprintf("Scan error [line=%d] ---> %s", se.Line, se.Message)
}

type CompileError struct {
	Message string
	Line    int
}

func (ce CompileError) Error() string {
	return fmt.Sprintf("Compile error [line=%d] ---> %s", ce.Line, ce.Message)
}

type RuntimeError struct {
	Message string
	Line    int
}

func (re RuntimeError) Error() string {
	return fmt.Sprintf("Runtime error [line=%d] ---> %s", re.Line, re.Message)
}
