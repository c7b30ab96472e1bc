package listview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatest_OnlyNewestApplies(t *testing.T) {
	var l Latest
	var applied []string

	firstCtx, first := l.Begin(context.Background())
	_, second := l.Begin(context.Background())

	assert.ErrorIs(t, firstCtx.Err(), context.Canceled)

	// the slow first response arrives after the second one
	assert.True(t, l.Apply(second, func() { applied = append(applied, "second") }))
	assert.False(t, l.Apply(first, func() { applied = append(applied, "first") }))

	assert.Equal(t, []string{"second"}, applied)
}

func TestLatest_ApplyReleasesContext(t *testing.T) {
	var l Latest
	ctx, epoch := l.Begin(context.Background())
	assert.NoError(t, ctx.Err())

	assert.True(t, l.Apply(epoch, func() {}))
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	// a later generation gets a fresh context
	next, nextEpoch := l.Begin(context.Background())
	assert.NoError(t, next.Err())
	assert.True(t, l.Apply(nextEpoch, func() {}))
	assert.ErrorIs(t, next.Err(), context.Canceled)
}

func TestLatest_StaleApplyKeepsNewestContext(t *testing.T) {
	var l Latest
	_, first := l.Begin(context.Background())
	second, _ := l.Begin(context.Background())

	assert.False(t, l.Apply(first, func() {}))
	assert.NoError(t, second.Err())
}
