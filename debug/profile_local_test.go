//go:build !book
// +build !book

package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDisablesEveryFlag(t *testing.T) {
	t.Parallel()

	fs := Default()

	for _, f := range All() {
		assert.False(t, fs.IsEnabled(f), f.String())
	}
}
