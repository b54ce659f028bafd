package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"horsetab/model"
)

func TestWatchFormatterNeverStartsWithNewline(t *testing.T) {
	var f watchFormatter
	out := f.format(model.Event{Type: model.SequenceReset})
	require.Empty(t, out)
}

func TestWatchFormatterCollapsesConsecutiveResets(t *testing.T) {
	var f watchFormatter
	var out strings.Builder

	out.WriteString(f.format(model.Event{Type: model.SequenceItem, Char: '.'}))
	out.WriteString(f.format(model.Event{Type: model.SequenceReset}))
	out.WriteString(f.format(model.Event{Type: model.SequenceReset}))
	out.WriteString(f.format(model.Event{Type: model.SequenceReset}))
	out.WriteString(f.format(model.Event{Type: model.SequenceItem, Char: '-'}))

	rendered := out.String()
	require.NotContains(t, rendered, "\n\n")
	require.False(t, strings.HasPrefix(rendered, "\n"))
	require.Equal(t, ".\n-", rendered)
}

func TestWatchFormatterRendersMatch(t *testing.T) {
	var f watchFormatter
	var out strings.Builder

	out.WriteString(f.format(model.Event{Type: model.SequenceItem, Char: '.'}))
	out.WriteString(f.format(model.Event{Type: model.SequenceItem, Char: '-'}))
	out.WriteString(f.format(model.Event{Type: model.FoundResults}))

	require.Equal(t, ".-!", out.String())
}
