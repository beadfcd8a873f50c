package report

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridfit/dataset"
	"gridfit/fit"
	"gridfit/types"
)

func fitRows(t *testing.T, cfg fit.Config, fn func(x float64) float64, xs ...float64) (*fit.Result, *dataset.Dataset) {
	t.Helper()
	ds, err := dataset.New(1, 0)
	require.NoError(t, err)
	for _, x := range xs {
		_, err := ds.Add(dataset.Row{X: [3]float64{x}, Value: fn(x), Uncertainty: 1})
		require.NoError(t, err)
	}
	log, _ := logtest.NewNullLogger()
	log.SetLevel(logrus.PanicLevel)
	f, err := fit.New(cfg, log)
	require.NoError(t, err)
	res, err := f.Fit(ds)
	require.NoError(t, err)
	return res, ds
}

func TestBound(t *testing.T) {
	assert.Equal(t, "x0 = 1.000000E+00 +/- 5.000000E-01", Bound("x0", 1, 0.5, 1.5))
	assert.Equal(t, "x = 1.000000E+00 + 1.000000E+00 - 5.000000E-01", Bound("x", 1, 0.5, 2))
	// 相对差极小时视为对称
	assert.Contains(t, Bound("y0", 2, 1, 3+1e-12), "+/-")
}

func TestParabolaReport(t *testing.T) {
	cfg := fit.DefaultConfig()
	res, ds := fitRows(t, cfg, func(x float64) float64 { return (x-1)*(x-1) + 2 }, -1, 0, 1, 2)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{FindMin: true, FindMax: true}).Print(res, ds))
	out := buf.String()

	assert.Contains(t, out, "FIT RESULTS")
	assert.Contains(t, out, "Fit parameter uncertainties reported at 1-sigma.")
	assert.Contains(t, out, "Fit function: f(x) = a1*x^2 + a2*x + a3")
	assert.Contains(t, out, "Best chisq (fit): 0.000")
	assert.Contains(t, out, "COEFFICIENT")
	assert.Contains(t, out, "UNCERTAINTY")
	assert.Contains(t, out, "Local minimum (with 1-sigma confidence interval) at:")
	assert.Contains(t, out, "x0 = 1.000000E+00 +/- 1.000000E+00")
	assert.Contains(t, out, "f(x0) = 2.000000E+00")
	assert.NotContains(t, out, "Assuming minimum at zero")
	assert.Contains(t, out, "Grid point corresponding to the lowest value (2.000000E+00) of the fitted function is at [ 1.000E+00 ].")
	assert.Contains(t, out, "highest value (6.000000E+00)")
	assert.Contains(t, out, "[ -1.000E+00 ]")
}

func TestZeroForcedSection(t *testing.T) {
	cfg := fit.DefaultConfig()
	res, ds := fitRows(t, cfg, func(x float64) float64 { return (x + 1) * (x + 1) }, -3, -2, -1, 0, 1)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{}).Print(res, ds))
	out := buf.String()
	assert.Contains(t, out, "Assuming minimum at zero for x,")
	assert.Contains(t, out, "x0 = 0.000000E+00 +/- ")
}

func TestCubicReport(t *testing.T) {
	cfg := fit.DefaultConfig()
	cfg.Model = types.ModelCubic
	res, ds := fitRows(t, cfg, func(x float64) float64 { return x*x*x - 3*x + 1 }, -3, -2, -1, 0, 1, 2, 3)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{}).Print(res, ds))
	out := buf.String()
	assert.Contains(t, out, "Fit function: f(x) = a1*x^3 + a2*x^2 + a3*x + a4")
	assert.Contains(t, out, "y-intercept = 1.000000E+00")
	assert.Contains(t, out, "Upper bound (with 1-sigma confidence interval) assuming minimum at zero: x = ")
	assert.Contains(t, out, "Critical points at x = [ -1.000000E+00 1.000000E+00 ]")
	assert.Contains(t, out, "At critical points, y = [ 3.000000E+00 -1.000000E+00 ]")
	assert.Contains(t, out, "Local maximum (with 1-sigma confidence interval): x = -1.000000E+00 + ")
	assert.Contains(t, out, "Local minimum (with 1-sigma confidence interval): x = 1.000000E+00 + ")
}

func TestMonotonicCubicReport(t *testing.T) {
	cfg := fit.DefaultConfig()
	cfg.Model = types.ModelCubic
	res, ds := fitRows(t, cfg, func(x float64) float64 { return x*x*x + x }, -2, -1, 0, 1, 2)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{}).Print(res, ds))
	assert.Contains(t, buf.String(), "Fit function is monotonic (no critical points).")

	buf.Reset()
	require.NoError(t, New(&buf, Options{Verbosity: VerbosityCritical}).Print(res, ds))
	assert.Equal(t, "NaN NaN\n", buf.String())
}

func TestQuadraticCubicReport(t *testing.T) {
	// 三次项为零，只剩一个临界点
	res := &fit.Result{
		Model:        types.ModelCubic,
		NumVars:      1,
		DataType:     types.DataChisq,
		Delta:        1,
		SigmaDesc:    "1-sigma",
		Coefficients: []float64{0, 1, -2, 3},
		Points: []fit.CriticalPoint{{
			Coords: []float64{1}, Value: 2, Kind: fit.KindMinimum,
			Lower: []float64{0}, Upper: []float64{2}, BoundsFound: true,
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{}).Print(res, nil))
	out := buf.String()
	assert.Contains(t, out, "Critical points at x = [ 1.000000E+00 ]")
	assert.Contains(t, out, "At critical points, y = [ 2.000000E+00 ]")
	assert.Contains(t, out, "Local minimum (with 1-sigma confidence interval): x = 1.000000E+00 +/- 1.000000E+00")

	buf.Reset()
	require.NoError(t, New(&buf, Options{Verbosity: VerbosityCritical}).Print(res, nil))
	assert.Equal(t, "1.000000E+00\n", buf.String())
}

func TestLinearReport(t *testing.T) {
	cfg := fit.DefaultConfig()
	cfg.Model = types.ModelLinear
	res, ds := fitRows(t, cfg, func(x float64) float64 { return 2*x + 1 }, 0, 1, 2, 3)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{}).Print(res, ds))
	out := buf.String()
	assert.Contains(t, out, "Fit function: f(x) = a1*x + a2 (Deming regression, delta = 1.000)")
	assert.NotContains(t, out, "UNCERTAINTY")
	assert.NotContains(t, out, "reported at 1-sigma")
	assert.Contains(t, out, "x-intercept = -5.000000E-01")
	assert.Contains(t, out, "y-intercept = 1.000000E+00")
}

func TestShortVerbosity(t *testing.T) {
	res := &fit.Result{
		Model:        types.ModelParaboloid,
		NumVars:      2,
		Coefficients: []float64{1, 2, 3, 4, 5, 6},
		Points:       []fit.CriticalPoint{{Coords: []float64{0.5, -2}}},
	}
	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{Verbosity: VerbosityCritical}).Print(res, nil))
	assert.Equal(t, "5.000000E-01 -2.000000E+00\n", buf.String())

	buf.Reset()
	require.NoError(t, New(&buf, Options{Verbosity: VerbosityCoefficients}).Print(res, nil))
	assert.Equal(t, "1.000000E+00 2.000000E+00 3.000000E+00 4.000000E+00 5.000000E+00 6.000000E+00\n", buf.String())
}

func TestSaddleAndRefitReport(t *testing.T) {
	res := &fit.Result{
		Model:        types.ModelParaboloid,
		NumVars:      2,
		SigmaDesc:    "1-sigma",
		Coefficients: []float64{1, -1, 0, 0, 0, 0},
		Errors:       []float64{0, 0, 0, 0, 0, 0},
		NDF:          3,
		Points:       []fit.CriticalPoint{{Coords: []float64{0, 0}, Kind: fit.KindSaddle}},
		Refit:        &fit.Refit{Kept: 9, Total: 10},
	}
	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{}).Print(res, nil))
	out := buf.String()
	assert.Contains(t, out, "Saddle point at:\nx0 = 0.000000E+00\ny0 = 0.000000E+00\n")
	assert.Contains(t, out, "f(x0,y0) = 0.000000E+00")
	assert.Contains(t, out, "Refit filter: 9 of 10 data point(s) retained.")
}

func TestWriteJSON(t *testing.T) {
	cfg := fit.DefaultConfig()
	// NDF = 0：误差为 NaN
	res, _ := fitRows(t, cfg, func(x float64) float64 { return x * x }, -1, 0, 1)
	require.True(t, math.IsNaN(res.Errors[0]))

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, res))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "paraboloid", decoded["model"])
	assert.Nil(t, decoded["chisqPerNdf"])
	assert.Equal(t, []any{nil, nil, nil}, decoded["errors"])
	assert.Len(t, decoded["covariance"], 3)
	points := decoded["points"].([]any)
	require.Len(t, points, 1)
	assert.Equal(t, "minimum", points[0].(map[string]any)["kind"])
}
