package schedule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		code  byte
		left  HalfState
		right HalfState
	}{
		{'0', HalfOn, HalfOn},
		{'1', HalfOff, HalfOff},
		{'2', HalfOff, HalfOn},
		{'3', HalfOn, HalfOff},
		{'4', HalfMaybe, HalfMaybe},
		{'9', HalfUnknown, HalfUnknown},
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			hs := Decode(tc.code)
			assert.Equal(t, tc.left, hs.Left)
			assert.Equal(t, tc.right, hs.Right)
		})
	}

	t.Run("unrecognized codes degrade to unknown", func(t *testing.T) {
		for _, code := range []byte{'5', '7', 'x', ' ', 0} {
			hs := Decode(code)
			assert.Equal(t, HalfUnknown, hs.Left)
			assert.Equal(t, HalfUnknown, hs.Right)
		}
	})
}

func TestDecodeSchedule(t *testing.T) {
	t.Run("full day decodes to 24 hour states", func(t *testing.T) {
		// Spec scenario: repeated 000 111 222 333 444 blocks.
		s := "000111222333444000111222"
		require.Len(t, s, 24)

		hours := DecodeSchedule(s)
		require.Len(t, hours, 24)

		assert.Equal(t, HourState{Left: HalfOn, Right: HalfOn}, hours[0])
		assert.Equal(t, HourState{Left: HalfOff, Right: HalfOff}, hours[3])
		assert.Equal(t, HourState{Left: HalfOff, Right: HalfOn}, hours[6])
		assert.Equal(t, HourState{Left: HalfOn, Right: HalfOff}, hours[9])
		assert.Equal(t, HourState{Left: HalfMaybe, Right: HalfMaybe}, hours[12])
	})

	t.Run("short strings are treated as absent", func(t *testing.T) {
		for _, s := range []string{"", "1", "0101010101", strings.Repeat("0", 23)} {
			assert.Nil(t, DecodeSchedule(s), "len=%d", len(s))
		}
	})

	t.Run("excess length is ignored", func(t *testing.T) {
		hours := DecodeSchedule(strings.Repeat("1", 30))
		require.Len(t, hours, 24)
		for _, h := range hours {
			assert.Equal(t, HalfOff, h.Left)
			assert.Equal(t, HalfOff, h.Right)
		}
	})

	t.Run("every code in the alphabet yields a complete grid", func(t *testing.T) {
		hours := DecodeSchedule("012349012349012349012349")
		require.Len(t, hours, 24)
		assert.Equal(t, HalfUnknown, hours[5].Left)
		assert.Equal(t, HalfUnknown, hours[11].Right)
	})
}
