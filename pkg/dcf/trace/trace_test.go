package trace

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSpanDisabledIsNoop(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "noop")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
	_, ok := TraceID(ctx)
	assert.False(t, ok)
}

func TestInitExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(&buf, "test"))
	assert.True(t, Enabled())

	ctx, span := StartSpan(context.Background(), "valuate")
	id, ok := TraceID(ctx)
	assert.True(t, ok)
	assert.Len(t, id, 32)
	span.End()

	require.NoError(t, Shutdown(context.Background()))
	assert.False(t, Enabled())
	assert.Contains(t, buf.String(), `"Name": "valuate"`)
}
