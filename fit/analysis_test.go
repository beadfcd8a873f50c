package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridfit/dataset"
	"gridfit/types"
)

func TestZeroForcingParaboloid2(t *testing.T) {
	// f = (x+1)² + (y-2)²，顶点 x 为负，自动固定 x = 0
	fn := func(x []float64) float64 { return (x[0]+1)*(x[0]+1) + (x[1]-2)*(x[1]-2) }
	for _, delta := range []float64{1, 2.3} {
		cfg := config(types.ModelParaboloid, 2)
		cfg.Delta = delta
		f, _ := newFitter(t, cfg)

		res, err := f.Fit(grid(t, fn, span(-3, 2, 1), span(0, 4, 1)))
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{-1, 2}, res.Points[0].Coords, tol)

		require.NotNil(t, res.ZeroForced)
		assert.Equal(t, ZeroX, res.ZeroForced.Mode)
		zp := res.ZeroForced.Point
		assert.InDeltaSlice(t, []float64{0, 2}, zp.Coords, tol)
		assert.InDelta(t, 1, zp.Value, tol)
		require.True(t, zp.BoundsFound)

		hx := -1 + math.Sqrt(1+delta)
		assert.InDelta(t, hx, zp.Upper[0], 1e-8)
		assert.InDelta(t, -hx, zp.Lower[0], 1e-8)
		assert.InDelta(t, 2+math.Sqrt(delta), zp.Upper[1], 1e-8)
		assert.InDelta(t, 2-math.Sqrt(delta), zp.Lower[1], 1e-8)
	}
}

func TestZeroForcingExplicitY(t *testing.T) {
	fn := func(x []float64) float64 { return (x[0]-1)*(x[0]-1) + (x[1]-1)*(x[1]-1) }
	cfg := config(types.ModelParaboloid, 2)
	cfg.ForceZeroY = true
	f, _ := newFitter(t, cfg)

	res, err := f.Fit(grid(t, fn, span(-1, 3, 1), span(-1, 3, 1)))
	require.NoError(t, err)
	require.NotNil(t, res.ZeroForced)
	assert.Equal(t, ZeroY, res.ZeroForced.Mode)
	zp := res.ZeroForced.Point
	assert.InDeltaSlice(t, []float64{1, 0}, zp.Coords, tol)
	// y = 0 截面 (x-1)² + 1，x 区间 1 ± 1
	assert.InDelta(t, 0, zp.Lower[0], 1e-8)
	assert.InDelta(t, 2, zp.Upper[0], 1e-8)
	assert.InDelta(t, -zp.Upper[1], zp.Lower[1], 1e-12)
}

func TestZeroForcingParabola(t *testing.T) {
	fn := func(x []float64) float64 { return (x[0] + 2) * (x[0] + 2) }
	f, _ := newFitter(t, config(types.ModelParaboloid, 1))

	res, err := f.Fit(grid(t, fn, span(-4, 1, 1)))
	require.NoError(t, err)
	require.NotNil(t, res.ZeroForced)
	zp := res.ZeroForced.Point
	assert.InDelta(t, 4, zp.Value, tol)
	// (x+2)² = 5 → x = -2 + √5
	assert.InDelta(t, -2+math.Sqrt(5), zp.Upper[0], 1e-8)
	assert.InDelta(t, 2-math.Sqrt(5), zp.Lower[0], 1e-8)
	assert.InDelta(t, -2, res.Points[0].Coords[0], tol)
}

func TestZeroForcingNotForThreeVariables(t *testing.T) {
	fn := func(x []float64) float64 { return x[0]*x[0] + x[1]*x[1] + x[2]*x[2] }
	cfg := config(types.ModelParaboloid, 3)
	cfg.ForceZeroX = true
	f, _ := newFitter(t, cfg)
	axis := span(-1, 1, 1)

	res, err := f.Fit(grid(t, fn, axis, axis, axis))
	require.NoError(t, err)
	assert.Nil(t, res.ZeroForced)
	assert.Contains(t, res.Warnings, "zero-forcing is only available for one or two variables")
}

func outlierDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := grid(t, func(x []float64) float64 { return x[0]*x[0] - 4 }, span(-5, 5, 1))
	_, err := ds.Add(dataset.Row{Value: 96, Uncertainty: 1})
	require.NoError(t, err)
	return ds
}

func TestRefitRemovesOutlier(t *testing.T) {
	cfg := config(types.ModelParaboloid, 1)
	cfg.Refit = true
	cfg.RefitDistance = 40
	f, hook := newFitter(t, cfg)

	res, err := f.Fit(outlierDataset(t))
	require.NoError(t, err)
	require.NotNil(t, res.Refit)
	assert.Equal(t, Refit{Kept: 11, Total: 12}, *res.Refit)
	assert.InDeltaSlice(t, []float64{1, 0, -4}, res.Coefficients, 1e-9)
	assert.Equal(t, 11-3, res.NDF)

	var found bool
	for _, e := range hook.AllEntries() {
		if e.Data["kept"] == 11 && e.Data["total"] == 12 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRefitKeepsEverythingWithLargeDistance(t *testing.T) {
	ds := outlierDataset(t)
	plain, _ := newFitter(t, config(types.ModelParaboloid, 1))
	want, err := plain.Fit(ds)
	require.NoError(t, err)

	cfg := config(types.ModelParaboloid, 1)
	cfg.Refit = true
	cfg.RefitDistance = 1e6
	f, _ := newFitter(t, cfg)
	got, err := f.Fit(ds)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Refit.Kept)
	assert.InDeltaSlice(t, want.Coefficients, got.Coefficients, 1e-12)
	assert.InDelta(t, want.ChiSq, got.ChiSq, 1e-9)
	assert.Equal(t, 12, ds.Len())
}

func TestRefitInsufficientAfterFilter(t *testing.T) {
	cfg := config(types.ModelParaboloid, 1)
	cfg.Refit = true
	cfg.RefitDistance = 1e-3
	f, _ := newFitter(t, cfg)
	_, err := f.Fit(outlierDataset(t))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestResultCloneIndependent(t *testing.T) {
	fn := func(x []float64) float64 { return (x[0] + 1) * (x[0] + 1) }
	f, _ := newFitter(t, config(types.ModelParaboloid, 1))
	res, err := f.Fit(grid(t, fn, span(-3, 1, 0.5)))
	require.NoError(t, err)

	c := res.Clone()
	c.Coefficients[0] = 99
	c.Points[0].Coords[0] = 99
	c.Points[0].Upper[0] = 99
	c.ZeroForced.Point.Coords[0] = 99
	c.Covariance.SetSym(0, 0, 99)
	c.warn("x")

	assert.NotEqual(t, 99.0, res.Coefficients[0])
	assert.NotEqual(t, 99.0, res.Points[0].Coords[0])
	assert.NotEqual(t, 99.0, res.Points[0].Upper[0])
	assert.Equal(t, 0.0, res.ZeroForced.Point.Coords[0])
	assert.NotEqual(t, 99.0, res.Covariance.At(0, 0))
	assert.Len(t, res.Warnings, len(c.Warnings)-1)
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "minimum", KindMinimum.String())
	assert.Equal(t, "saddle", KindSaddle.String())
	assert.Equal(t, "none", Kind(42).String())
	assert.Equal(t, "x and y", ZeroXY.String())

	res := &Result{Points: []CriticalPoint{{Kind: KindMaximum}, {Kind: KindMinimum, Value: 3}}}
	p, ok := res.Minimum()
	assert.True(t, ok)
	assert.Equal(t, 3.0, p.Value)
	_, ok = (&Result{}).Maximum()
	assert.False(t, ok)
}

func TestForms(t *testing.T) {
	res := &Result{
		Model:        types.ModelParaboloid,
		NumVars:      2,
		Coefficients: []float64{1, 2, 3, 4, 5, 6},
		Fixed:        []float64{0.5, -1},
	}
	surface := "1.0000000000E+00*(x**2) + 2.0000000000E+00*(y**2) + 3.0000000000E+00*x*y + " +
		"4.0000000000E+00*x + 5.0000000000E+00*y + 6.0000000000E+00"
	assert.Equal(t, []string{surface}, forms(res, types.Plot2D))

	one := forms(res, types.Plot1D)
	require.Len(t, one, 2)
	assert.Equal(t, "1.0000000000E+00*(x**2) + 2.0000000000E+00*((-1.0000000000E+00)**2) + "+
		"3.0000000000E+00*x*(-1.0000000000E+00) + 4.0000000000E+00*x + "+
		"5.0000000000E+00*(-1.0000000000E+00) + 6.0000000000E+00", one[0])
	assert.Contains(t, one[1], "*((5.0000000000E-01)**2)")
	assert.Contains(t, one[1], "2.0000000000E+00*(x**2)")

	res.Fixed = nil
	assert.Nil(t, forms(res, types.Plot1D))

	line := &Result{Model: types.ModelLinear, NumVars: 1, Coefficients: []float64{2, 1}}
	assert.Equal(t, []string{"2.0000000000E+00*x + 1.0000000000E+00"}, forms(line, types.PlotNone))

	// 负系数写作减号
	line.Coefficients = []float64{-2, -1}
	assert.Equal(t, []string{"-2.0000000000E+00*x - 1.0000000000E+00"}, forms(line, types.PlotNone))
	res.Coefficients = []float64{1, 2, -3, 4, -5, 6}
	res.Fixed = []float64{0.5, -1}
	assert.Equal(t, []string{"1.0000000000E+00*(x**2) + 2.0000000000E+00*(y**2) - 3.0000000000E+00*x*y + " +
		"4.0000000000E+00*x - 5.0000000000E+00*y + 6.0000000000E+00"}, forms(res, types.Plot2D))
}

func TestFormsThreeVariables(t *testing.T) {
	res := &Result{
		Model:        types.ModelParaboloid,
		NumVars:      3,
		Coefficients: []float64{1, 1, 1, 0, 0, 0, 0, 0, 0, 0},
		Fixed:        []float64{1, 2, 3},
	}
	two := forms(res, types.Plot2D)
	require.Len(t, two, 3)
	assert.Contains(t, two[0], "((1.0000000000E+00)**2)")
	assert.Contains(t, two[0], "*(x**2)")
	assert.Contains(t, two[0], "*(y**2)")
	assert.Contains(t, two[2], "((3.0000000000E+00)**2)")
}
