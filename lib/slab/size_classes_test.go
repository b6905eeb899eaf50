package slab

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundSlotsPerChunk_Deterministic(t *testing.T) {
	testcases := []struct {
		requested int
		slotSize  uintptr
		want      int
	}{
		// need = requested*slotSize + 16, class = smallest pow2 >= need
		// (floor 64), want = (class - 16) / slotSize.
		{1, 40, 1},   // need 56 -> class 64 -> 48/40
		{2, 40, 2},   // need 96 -> class 128 -> 112/40
		{5, 40, 6},   // need 216 -> class 256 -> 240/40
		{2, 8, 6},    // need 32 -> class 64 -> 48/8
		{100, 8, 127}, // need 816 -> class 1024 -> 1008/8
		{1, 64, 1},   // need 80 -> class 128 -> 112/64
	}
	for _, tc := range testcases {
		got := roundSlotsPerChunk(tc.requested, tc.slotSize)
		require.Equal(t, tc.want, got, "requested %d slotSize %d", tc.requested, tc.slotSize)
		require.GreaterOrEqual(t, got, tc.requested)
		// Deterministic for the same inputs.
		require.Equal(t, got, roundSlotsPerChunk(tc.requested, tc.slotSize))
	}
}

func TestRoundSlotsPerChunk_InvalidRequest(t *testing.T) {
	require.Panics(t, func() {
		_ = roundSlotsPerChunk(0, 8)
	})
	require.Panics(t, func() {
		_ = roundSlotsPerChunk(-1, 8)
	})
}
