//go:build book
// +build book

package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookBuildTracesExecution(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Flag{TraceExecution}, Default().Enabled())
}
