package checked

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	v, err := Add(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)

	_, err = Add(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrArithmetic)
}

func TestSub(t *testing.T) {
	v, err := Sub(5, 5)
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = Sub(4, 5)
	assert.ErrorIs(t, err, ErrArithmetic)
}

func TestMul(t *testing.T) {
	v, err := Mul(1<<32, 1<<31)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<63), v)

	_, err = Mul(1<<32, 1<<32)
	assert.ErrorIs(t, err, ErrArithmetic)
}

func TestDiv(t *testing.T) {
	v, err := Div(7, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)

	_, err = Div(7, 0)
	assert.ErrorIs(t, err, ErrArithmetic)
}

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name    string
		a, b, d uint64
		want    uint64
		wantErr bool
	}{
		{"bps of amount", 10_000, 200, 10_000, 200, false},
		{"floors", 999, 1, 10, 99, false},
		{"zero", 0, math.MaxUint64, 1, 0, false},
		{"product overflows", math.MaxUint64, 2, 2, 0, true},
		{"zero divisor", 1, 1, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MulDiv(tt.a, tt.b, tt.d)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrArithmetic)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
