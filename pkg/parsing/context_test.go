package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextCounts(t *testing.T) {
	ctx := NewContext("test.xml")

	ctx.Success("a")
	ctx.Success("b")
	ctx.Skip("Missing stop reference", "SJ1")

	assert.Equal(t, 2, ctx.Processed())
	assert.Equal(t, 1, ctx.Skipped())
	assert.Equal(t, []string{"Missing stop reference (SJ1)"}, ctx.Messages())

	err := ctx.CheckStrict()
	assert.ErrorIs(t, err, ErrStrict)
	assert.Contains(t, err.Error(), "Missing stop reference")
}

func TestContextMerge(t *testing.T) {
	parent := NewContext("all")
	first := parent.Child("a.xml")
	second := parent.Child("b.xml")

	first.Success("x")
	second.Skip("bad", "")

	parent.Merge(first)
	parent.Merge(second)

	assert.Equal(t, 1, parent.Processed())
	assert.Equal(t, 1, parent.Skipped())
	assert.Equal(t, []string{"bad"}, parent.Messages())
}

func TestNilContext(t *testing.T) {
	var ctx *Context

	ctx.Success("a")
	ctx.Skip("b", "c")
	ctx.Report()

	assert.Equal(t, 0, ctx.Processed())
	assert.NoError(t, ctx.CheckStrict())
	assert.NotNil(t, ctx.Child("x"))
}
