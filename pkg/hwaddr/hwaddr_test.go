package hwaddr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zhengfish/cloudvpn/pkg/hwaddr"
)

func TestParseString(t *testing.T) {
	a, err := hwaddr.Parse("aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)
	require.Equal(t, "aa:bb:cc:dd:ee:ff", a.String())
}

func TestParseInvalid(t *testing.T) {
	_, err := hwaddr.Parse("not-an-addr")
	require.Error(t, err)
}

func TestCompareOrder(t *testing.T) {
	a, _ := hwaddr.Parse("00:00:00:00:00:01")
	b, _ := hwaddr.Parse("00:00:00:00:00:02")
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.Equal(t, 0, a.Compare(a))
}

func TestFromBytesBadLength(t *testing.T) {
	_, err := hwaddr.FromBytes([]byte{1, 2, 3})
	require.ErrorIs(t, err, hwaddr.ErrBadLength)
}

func TestIsBroadcast(t *testing.T) {
	bc, _ := hwaddr.Parse("ff:ff:ff:ff:ff:ff")
	require.True(t, bc.IsBroadcast())
	other, _ := hwaddr.Parse("aa:bb:cc:dd:ee:ff")
	require.False(t, other.IsBroadcast())
}
