package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row1(x, v float64) Row {
	return Row{X: [3]float64{x}, Value: v, Uncertainty: 1}
}

func TestNewValidatesVariableCount(t *testing.T) {
	_, err := New(0, 10)
	require.Error(t, err)
	_, err = New(4, 10)
	require.Error(t, err)

	d, err := New(2, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, d.NumVars())
	assert.Greater(t, d.Cap(), 0)
}

func TestAddRespectsLimits(t *testing.T) {
	d, err := New(1, 10)
	require.NoError(t, err)

	ok, err := d.Add(row1(-5, 1))
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, d.SetLowerLimits(0))
	require.NoError(t, d.SetUpperLimits(10))

	for _, x := range []float64{-1, 0, 5, 10, 11} {
		_, err := d.Add(row1(x, x))
		require.NoError(t, err)
	}
	assert.Equal(t, 4, d.Len())
	assert.Equal(t, 2, d.Skipped())
	// 已准入的行不受之后设置的范围影响
	assert.Equal(t, -5.0, d.Row(0).X[0])
	for _, r := range d.Rows()[1:] {
		assert.True(t, d.Limits().Contains(r, 1))
	}
}

func TestAddRejectsInvalidRows(t *testing.T) {
	d, err := New(2, 10)
	require.NoError(t, err)

	cases := []Row{
		{X: [3]float64{math.NaN(), 0}, Value: 1, Uncertainty: 1},
		{X: [3]float64{0, math.Inf(1)}, Value: 1, Uncertainty: 1},
		{Value: math.NaN(), Uncertainty: 1},
		{Value: 1, Uncertainty: 0},
		{Value: 1, Uncertainty: -2},
	}
	for _, r := range cases {
		_, err := d.Add(r)
		assert.ErrorIs(t, err, ErrInvalidRow)
	}
	assert.Equal(t, 0, d.Len())

	// 未使用的变量分量被清零
	ok, err := d.Add(Row{X: [3]float64{1, 2, 99}, Value: 3, Uncertainty: 1})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.0, d.Row(0).X[2])
}

func TestAddCapacity(t *testing.T) {
	d, err := New(1, 2)
	require.NoError(t, err)
	for i := range 2 {
		_, err := d.Add(row1(float64(i), 0))
		require.NoError(t, err)
	}
	_, err = d.Add(row1(3, 0))
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, 2, d.Len())
}

func TestLimitsArity(t *testing.T) {
	d, err := New(3, 10)
	require.NoError(t, err)
	assert.Error(t, d.SetUpperLimits(1, 2))
	assert.NoError(t, d.SetLowerLimits(1, 2, 3, 4))
	assert.Equal(t, [3]float64{1, 2, 3}, d.Limits().Lower)
}

func TestFilterAndCloneAreIndependent(t *testing.T) {
	d, err := New(1, 5)
	require.NoError(t, err)
	require.NoError(t, d.SetUpperLimits(100))
	for i := range 5 {
		_, err := d.Add(row1(float64(i), float64(i*i)))
		require.NoError(t, err)
	}

	even := d.Filter(func(r Row) bool { return int(r.X[0])%2 == 0 })
	assert.Equal(t, 3, even.Len())
	assert.Equal(t, d.Cap(), even.Cap())
	assert.Equal(t, d.Limits(), even.Limits())
	assert.Equal(t, 5, d.Len())

	c := d.Clone()
	_, err = c.Add(row1(9, 0))
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, []float64{0, 1, 4, 9, 16}, c.Values())
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, d.Column(0))
}

func TestNearest(t *testing.T) {
	d, err := New(1, 10)
	require.NoError(t, err)
	for _, x := range []float64{0, 1, 2, 3} {
		_, err := d.Add(row1(x, 0))
		require.NoError(t, err)
	}
	v, ok := d.Nearest(0, 1.4)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
	// 距离相同时取先出现的值
	v, _ = d.Nearest(0, 1.5)
	assert.Equal(t, 1.0, v)

	empty, _ := New(1, 1)
	_, ok = empty.Nearest(0, 0)
	assert.False(t, ok)
}

func TestAllStopsEarly(t *testing.T) {
	d, _ := New(1, 10)
	for i := range 4 {
		_, _ = d.Add(row1(float64(i), 0))
	}
	n := 0
	for i := range d.All {
		n++
		if i == 1 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
