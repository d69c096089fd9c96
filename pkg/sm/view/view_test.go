package view_test

import (
	"testing"

	"github.com/smtk-dev/smtk/pkg/sm/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	a := view.FromString("HALT")
	b := view.FromString("HALT")
	c := view.FromString("halt")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, a.EqualIgnoreASCIICase(c))
}

func TestStartsWith(t *testing.T) {
	assert.True(t, view.FromString("CODE.main").StartsWith(view.FromString("CODE")))
	assert.False(t, view.FromString("CO").StartsWith(view.FromString("CODE")))
}

func TestHashStable(t *testing.T) {
	a := view.FromString("start")
	b := view.FromString("start")
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestPoolInternDedups(t *testing.T) {
	pool := view.NewPool()
	a := pool.InternString("start")
	b := pool.InternString("start")
	require.True(t, a.Equal(b))
	assert.Equal(t, 1, pool.Len())
}

func TestPoolInternStableAcrossGrowth(t *testing.T) {
	pool := view.NewPool()
	first := pool.InternString("anchor")
	for i := 0; i < 10000; i++ {
		pool.Intern([]byte{byte(i), byte(i >> 8)})
	}
	assert.Equal(t, "anchor", first.String())
}

func TestViewNull(t *testing.T) {
	assert.True(t, view.Null.IsNull())
	assert.False(t, view.FromString("").IsNull())
}
