package slider

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	for n := 1; n <= 24; n++ {
		assert.Equal(t, 0, Wrap(n, n), "advancing past the last image of %d", n)
		assert.Equal(t, n-1, Wrap(-1, n), "retreating before the first image of %d", n)
		for i := 0; i < n; i++ {
			assert.Equal(t, i, Wrap(i, n))
			assert.Equal(t, i, Wrap(i+3*n, n))
			assert.Equal(t, i, Wrap(i-3*n, n))
		}
	}
}

func TestClampOffset(t *testing.T) {
	tests := []struct {
		offset, dim, want int
	}{
		{0, 800, 0},
		{799, 800, 799},
		{800, 800, 799},
		{5000, 800, 799},
		{-799, 800, -799},
		{-800, 800, -799},
		{-480, 480, -479},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampOffset(tt.offset, tt.dim), "ClampOffset(%d, %d)", tt.offset, tt.dim)
	}
}

func TestAxis(t *testing.T) {
	size := image.Pt(800, 480)
	assert.Equal(t, 800, Horizontal.Dimension(size))
	assert.Equal(t, 480, Vertical.Dimension(size))
	assert.Equal(t, Vertical, Horizontal.Toggle())
	assert.Equal(t, Horizontal, Vertical.Toggle())

	a, err := ParseAxis("Vertical")
	require.NoError(t, err)
	assert.Equal(t, Vertical, a)
	a, err = ParseAxis("")
	require.NoError(t, err)
	assert.Equal(t, Horizontal, a)
	_, err = ParseAxis("diagonal")
	assert.Error(t, err)
}
