package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"gridfit/dataset"
	"gridfit/maths"
	"gridfit/types"
)

func init() {
	register(types.ModelLinear, driver{
		solve:   demingSolve,
		chiSq:   demingChiSq,
		analyze: analyzeLine,
	})
}

// demingSolve Deming 回归 f(x) = a1·x + a2
// δ 为 y 与 x 的误差方差比（1 为正交回归，δ 很大时退化为普通最小二乘）
//
//	a1 = (syy - δ·sxx + sqrt((syy - δ·sxx)² + 4δ·sxy²)) / (2·sxy)
//	a2 = ȳ - a1·x̄
func demingSolve(f *Fitter, ds *dataset.Dataset) ([]float64, maths.Matrix, error) {
	xs, ys := ds.Column(0), ds.Values()
	xb, yb := stat.Mean(xs, nil), stat.Mean(ys, nil)
	sxx := stat.Variance(xs, nil)
	syy := stat.Variance(ys, nil)
	sxy := stat.Covariance(xs, ys, nil)
	if sxy == 0 || math.IsNaN(sxy) {
		return nil, nil, fmt.Errorf("%w: sxy = %v", ErrDegenerate, sxy)
	}
	delta := f.Config.DemingDelta
	u := syy - delta*sxx
	a1 := (u + math.Sqrt(u*u+4*delta*sxy*sxy)) / (2 * sxy)
	return []float64{a1, yb - a1*xb}, nil, nil
}

// demingChiSq 以数据点在直线上的投影计算 χ²
// Σ((y - ŷ)² + δ·(x - x̂)²)/σ²
func demingChiSq(f *Fitter, a []float64, ds *dataset.Dataset) float64 {
	delta := f.Config.DemingDelta
	chisq := 0.0
	for _, r := range ds.All {
		x, y := r.X[0], r.Value
		xh := x + (a[0]/(a[0]*a[0]+delta))*(y-a[1]-a[0]*x)
		yh := a[0]*xh + a[1]
		chisq += ((y-yh)*(y-yh) + delta*(x-xh)*(x-xh)) / (r.Uncertainty * r.Uncertainty)
	}
	return chisq
}

// analyzeLine 临界点为 (x 截距, y 截距)，不计算协方差与置信区间
func analyzeLine(_ *Fitter, res *Result) error {
	a1, a2 := res.Coefficients[0], res.Coefficients[1]
	res.Points = []CriticalPoint{{
		Coords: []float64{-a2 / a1, a2},
		Kind:   KindIntercept,
	}}
	return nil
}
