package nand

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadU16LE(t *testing.T) {
	require.Equal(t, uint16(0x1234), ReadU16LE([]byte{0x34, 0x12, 0xAA}))
}

func TestReadU32LE(t *testing.T) {
	require.Equal(t, uint32(0x78563412), ReadU32LE([]byte{0x12, 0x34, 0x56, 0x78, 0xAA}))
}
