package printer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	color.NoColor = true

	t.Run("single suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		err := Error(&buf, "No policy", "Nothing was saved yet.", []string{"Run: boxes train"})
		require.EqualError(t, err, "No policy")
		require.Equal(t, "No policy\n\nNothing was saved yet.\n\nRun: boxes train\n", buf.String())
	})

	t.Run("several suggestions are numbered", func(t *testing.T) {
		var buf bytes.Buffer
		_ = Error(&buf, "Bad", "Why.", []string{"one", "two"})
		require.Contains(t, buf.String(), "Either:\n  1. one\n  2. two\n")
	})

	t.Run("no suggestions", func(t *testing.T) {
		var buf bytes.Buffer
		_ = Error(&buf, "Bad", "Why.", nil)
		require.Equal(t, "Bad\n\nWhy.\n", buf.String())
	})
}

func TestSuccess(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	Success(&buf, "saved %d entries", 3)
	require.Equal(t, "✓ saved 3 entries\n", buf.String())
}
