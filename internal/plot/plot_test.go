package plot

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bssrdf/boxtree/internal/testutil"
	"github.com/bssrdf/boxtree/traversal"
)

func build2D(t *testing.T) *traversal.Info {
	t.Helper()
	info, err := traversal.Build(context.Background(), testutil.UniformTree(2, 2))
	require.NoError(t, err)
	return info
}

func TestWriteSVG_DrawsEveryBox(t *testing.T) {
	info := build2D(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, info, DefaultOptions()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Equal(t, info.Tree.NBoxes, strings.Count(out, "<rect"))
}

func TestWriteSVG_Highlight(t *testing.T) {
	info := build2D(t)

	opts := DefaultOptions()
	opts.HighlightBox = 7
	opts.HighlightList = "colleagues"

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, info, opts))

	out := buf.String()
	assert.Contains(t, out, queryFill)
	assert.Contains(t, out, listFill)
}

func TestWriteSVG_HighlightTargetKeyedList(t *testing.T) {
	info := build2D(t)

	opts := DefaultOptions()
	opts.HighlightBox = int(info.TargetBoxes[0])
	opts.HighlightList = "neighbor_source_boxes"

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, info, opts))
	assert.Contains(t, buf.String(), listFill)
}

func TestWriteSVG_Rejects3D(t *testing.T) {
	info, err := traversal.Build(context.Background(), testutil.UniformTree(3, 1))
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.Error(t, WriteSVG(&buf, info, DefaultOptions()))
}

func TestWriteSVG_BadHighlight(t *testing.T) {
	info := build2D(t)

	opts := DefaultOptions()
	opts.HighlightBox = info.Tree.NBoxes + 5

	var buf bytes.Buffer
	assert.Error(t, WriteSVG(&buf, info, opts))
}
