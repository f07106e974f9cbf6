package safeconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntSliceToUint32Slice(t *testing.T) {
	assert.Equal(t, []uint32{0, 1, 0}, IntSliceToUint32Slice([]int{0, 1, -5}))
}

func TestRoundTrip(t *testing.T) {
	ids := []uint32{0, 7, 42}
	assert.Equal(t, ids, IntSliceToUint32Slice(Uint32SliceToIntSlice(ids)))
}

func TestClampToByte(t *testing.T) {
	assert.Equal(t, uint8(0), ClampToByte(-3))
	assert.Equal(t, uint8(127), ClampToByte(127.5))
	assert.Equal(t, uint8(255), ClampToByte(300))
	assert.Equal(t, uint8(255), ClampToByte(255))
}
