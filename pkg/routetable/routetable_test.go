package routetable_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zhengfish/cloudvpn/pkg/hwaddr"
	"github.com/zhengfish/cloudvpn/pkg/routetable"
)

func addr(s string) hwaddr.HwAddr {
	a, err := hwaddr.Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// TestTieBreakSmallestPeerID covers spec.md §8 property 2 and §9 open
// question (a): equal-cost candidates resolve to the smallest PeerID.
func TestTieBreakSmallestPeerID(t *testing.T) {
	tbl := routetable.New()
	a := addr("aa:aa:aa:aa:aa:aa")

	changed := tbl.Recompute(a, []routetable.Source{
		{Via: 5, Ping: 10, Dist: 0},
		{Via: 2, Ping: 10, Dist: 0},
	}, map[int]uint32{5: 0, 2: 0})
	require.True(t, changed)

	e, ok := tbl.Lookup(a)
	require.True(t, ok)
	require.Equal(t, 2, e.Via)
}

func TestLowerCostWins(t *testing.T) {
	tbl := routetable.New()
	a := addr("aa:aa:aa:aa:aa:aa")

	tbl.Recompute(a, []routetable.Source{
		{Via: 1, Ping: 100, Dist: 0},
		{Via: 2, Ping: 5, Dist: 0},
	}, map[int]uint32{1: 0, 2: 0})

	e, ok := tbl.Lookup(a)
	require.True(t, ok)
	require.Equal(t, 2, e.Via)
}

func TestLocalAddressZeroCost(t *testing.T) {
	tbl := routetable.New()
	a := addr("aa:aa:aa:aa:aa:aa")

	tbl.Recompute(a, []routetable.Source{
		{Via: routetable.LocalVia, Ping: 0, Dist: 0},
		{Via: 1, Ping: 50, Dist: 0},
	}, map[int]uint32{1: 50})

	e, ok := tbl.Lookup(a)
	require.True(t, ok)
	require.Equal(t, routetable.LocalVia, e.Via)
	require.EqualValues(t, 0, e.Cost)
}

func TestWithdrawRemovesEntry(t *testing.T) {
	tbl := routetable.New()
	a := addr("aa:aa:aa:aa:aa:aa")

	tbl.Recompute(a, []routetable.Source{{Via: 1, Ping: 0, Dist: 0}}, map[int]uint32{1: 0})
	_, ok := tbl.Lookup(a)
	require.True(t, ok)

	changed := tbl.Recompute(a, nil, nil)
	require.True(t, changed)
	_, ok = tbl.Lookup(a)
	require.False(t, ok)
}

func TestFlushDirtyDrainsOnce(t *testing.T) {
	tbl := routetable.New()
	a := addr("aa:aa:aa:aa:aa:aa")
	tbl.Recompute(a, []routetable.Source{{Via: 1, Ping: 0, Dist: 0}}, map[int]uint32{1: 0})

	dirty := tbl.FlushDirty()
	require.Len(t, dirty, 1)
	require.Equal(t, a, dirty[0])

	require.Empty(t, tbl.FlushDirty())
}

// TestIdempotentRecompute covers spec.md §8 property 6: applying the same
// source set twice is a no-op (table state and dirty flag unchanged).
func TestIdempotentRecompute(t *testing.T) {
	tbl := routetable.New()
	a := addr("aa:aa:aa:aa:aa:aa")
	src := []routetable.Source{{Via: 1, Ping: 10, Dist: 2}}
	pings := map[int]uint32{1: 10}

	require.True(t, tbl.Recompute(a, src, pings))
	tbl.FlushDirty()

	require.False(t, tbl.Recompute(a, src, pings))
	require.Empty(t, tbl.FlushDirty())
}
