package peer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zhengfish/cloudvpn/pkg/frame"
	"github.com/zhengfish/cloudvpn/pkg/hwaddr"
	"github.com/zhengfish/cloudvpn/pkg/peer"
)

func testLimits() peer.Limits {
	return peer.Limits{
		MaxProtoQueue:   8,
		MaxDataQueue:    8,
		MaxRemoteRoutes: 2,
		MTU:             1500,
	}
}

func TestLifecycleOutbound(t *testing.T) {
	c := peer.New(1, testLimits(), "10.0.0.1:7890")
	require.Equal(t, peer.StateInactive, c.State)

	now := time.Now()
	c.BeginConnect(now)
	require.Equal(t, peer.StateConnecting, c.State)

	c.BeginHandshake(nil, nil)
	require.Equal(t, peer.StateSSLConnecting, c.State)

	c.Activate(now)
	require.Equal(t, peer.StateActive, c.State)
	require.False(t, c.PingPending())

	c.BeginClose()
	require.Equal(t, peer.StateClosing, c.State)

	c.Reset(now)
	require.Equal(t, peer.StateRetryTimeout, c.State, "has a reconnect address, so it redials")
}

func TestLifecycleInboundOnly(t *testing.T) {
	c := peer.New(2, testLimits(), "")
	c.BeginAccept(nil)
	require.Equal(t, peer.StateAccepting, c.State)

	c.Reset(time.Now())
	require.Equal(t, peer.StateInactive, c.State, "no reconnect address means no redial")
}

func TestRetryDue(t *testing.T) {
	c := peer.New(3, testLimits(), "10.0.0.1:7890")
	now := time.Now()
	c.Reset(now)
	require.False(t, c.RetryDue(now, time.Minute))
	require.True(t, c.RetryDue(now.Add(2*time.Minute), time.Minute))
}

func TestPingPongRoundTrip(t *testing.T) {
	c := peer.New(1, testLimits(), "")
	c.Activate(time.Now())

	now := time.Now()
	require.True(t, c.KeepaliveDue(now.Add(time.Hour), time.Minute))
	require.NoError(t, c.SendPing(now, 42))
	require.True(t, c.PingPending())

	require.False(t, c.NotePong(7, now.Add(time.Millisecond)), "wrong id is ignored")
	require.True(t, c.PingPending())

	require.True(t, c.NotePong(42, now.Add(5*time.Millisecond)))
	require.False(t, c.PingPending())
	require.Greater(t, c.Ping, uint32(0))
}

func TestPingTimeout(t *testing.T) {
	c := peer.New(1, testLimits(), "")
	c.Activate(time.Now())
	now := time.Now()
	require.NoError(t, c.SendPing(now, 1))
	require.False(t, c.PingTimedOut(now.Add(time.Second), 5*time.Second))
	require.True(t, c.PingTimedOut(now.Add(10*time.Second), 5*time.Second))
}

func TestProtoQueueTakesPriorityOverData(t *testing.T) {
	c := peer.New(1, testLimits(), "")
	require.NoError(t, c.EnqueueData([]byte("data-1")))
	require.NoError(t, c.EnqueuePong(9))

	buf, fromData, ok := c.NextWrite()
	require.True(t, ok)
	require.False(t, fromData, "proto queue drains first even though data was queued earlier")
	c.AdvanceWrite(len(buf), fromData)

	buf, fromData, ok = c.NextWrite()
	require.True(t, ok)
	require.True(t, fromData)
	c.AdvanceWrite(len(buf), fromData)

	_, _, ok = c.NextWrite()
	require.False(t, ok)
}

func TestDataWriteResumesSameBufferAcrossProtoInterleave(t *testing.T) {
	c := peer.New(1, testLimits(), "")
	require.NoError(t, c.EnqueueData(make([]byte, 64)))

	buf, fromData, ok := c.NextWrite()
	require.True(t, ok)
	require.True(t, fromData)
	half := len(buf) / 2
	c.AdvanceWrite(half, fromData)

	// A protocol message queued mid-drain must not cut in ahead of the
	// partially written data buffer (spec.md §8 S6 combined with §4.4).
	require.NoError(t, c.EnqueuePong(1))

	buf2, fromData2, ok := c.NextWrite()
	require.True(t, ok)
	require.True(t, fromData2, "resumes the in-flight data buffer before servicing proto_q")
	require.Equal(t, len(buf)-half, len(buf2))
}

func TestRouteSetWithinLimitReplacesTable(t *testing.T) {
	c := peer.New(1, testLimits(), "")
	a := hwaddr.HwAddr{0, 1, 2, 3, 4, 5}
	b := hwaddr.HwAddr{0, 1, 2, 3, 4, 6}

	overflow := c.ApplyRouteSet([]frame.RouteEntry{
		{Addr: a, Ping: 10, Dist: 1},
		{Addr: b, Ping: 20, Dist: 2},
	})
	require.False(t, overflow)
	require.False(t, c.RouteOverflow)
	require.Equal(t, 2, c.RemoteRouteCount())
}

func TestRouteSetOverLimitRejectedAtomically(t *testing.T) {
	c := peer.New(1, testLimits(), "")
	a := hwaddr.HwAddr{0, 1, 2, 3, 4, 5}
	require.False(t, c.ApplyRouteSet([]frame.RouteEntry{{Addr: a, Ping: 1, Dist: 1}}))

	over := hwaddr.HwAddr{9, 9, 9, 9, 9, 9}
	overflow := c.ApplyRouteSet([]frame.RouteEntry{
		{Addr: a, Ping: 1, Dist: 1},
		{Addr: over, Ping: 1, Dist: 1},
		{Addr: hwaddr.HwAddr{1, 1, 1, 1, 1, 1}, Ping: 1, Dist: 1},
	})
	require.True(t, overflow)
	require.True(t, c.RouteOverflow)
	require.Equal(t, 1, c.RemoteRouteCount(), "rejected set leaves the prior table untouched")
}

func TestRouteDiffWithdraw(t *testing.T) {
	c := peer.New(1, testLimits(), "")
	a := hwaddr.HwAddr{0, 1, 2, 3, 4, 5}
	require.False(t, c.ApplyRouteSet([]frame.RouteEntry{{Addr: a, Ping: 1, Dist: 1}}))

	overflow := c.ApplyRouteDiff([]frame.RouteEntry{{Addr: a, Dist: frame.RouteEntryWithdraw}})
	require.False(t, overflow)
	require.Equal(t, 0, c.RemoteRouteCount())
}

func TestRouteDiffStopsAtCap(t *testing.T) {
	c := peer.New(1, testLimits(), "")
	a := hwaddr.HwAddr{0, 1, 2, 3, 4, 5}
	b := hwaddr.HwAddr{0, 1, 2, 3, 4, 6}
	require.False(t, c.ApplyRouteSet([]frame.RouteEntry{
		{Addr: a, Ping: 1, Dist: 1},
		{Addr: b, Ping: 1, Dist: 1},
	}))

	extra := hwaddr.HwAddr{7, 7, 7, 7, 7, 7}
	overflow := c.ApplyRouteDiff([]frame.RouteEntry{{Addr: extra, Ping: 1, Dist: 1}})
	require.True(t, overflow)
	require.True(t, c.RouteOverflow)
	require.Equal(t, 2, c.RemoteRouteCount(), "over-cap entry is dropped, not admitted")
}
