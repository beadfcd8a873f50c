package fit

import (
	"errors"
	"fmt"
	"math"

	"gridfit/maths"
	"gridfit/types"
)

func init() {
	register(types.ModelCubic, driver{
		solve:   polySolve,
		analyze: analyzeCubic,
	})
}

// analyzeCubic f(x) = a·x³ + b·x² + c·x + d
// 临界点为 3a·x² + 2b·x + c = 0 的根（升序），函数值较小者为最小值
func analyzeCubic(f *Fitter, res *Result) error {
	co := res.Coefficients
	a, b, c := co[0], co[1], co[2]
	chisq := res.DataType == types.DataChisq
	if a == 0 {
		return analyzeQuadraticCubic(f, res)
	}

	s := math.Sqrt(b*b - 3*a*c)
	x1 := (-b - s) / (3 * a)
	x2 := (-b + s) / (3 * a)
	if x1 > x2 {
		x1, x2 = x2, x1
	}

	if isBad(x1) || isBad(x2) {
		res.Monotonic = true
		msg := "fit function is monotonic (no critical points)"
		f.logger().Warn(msg)
		res.warn(msg)
	} else {
		p1 := CriticalPoint{Coords: []float64{x1}, Value: res.Eval(x1), Kind: KindMinimum}
		p2 := CriticalPoint{Coords: []float64{x2}, Value: res.Eval(x2), Kind: KindMaximum}
		if !(p1.Value < p2.Value) {
			p1.Kind, p2.Kind = KindMaximum, KindMinimum
		}
		if chisq {
			for _, p := range []*CriticalPoint{&p1, &p2} {
				lo, hi, ok, err := cubicBounds(co, p.Coords[0], p.Kind == KindMinimum, res.Delta)
				if err != nil {
					msg := fmt.Sprintf("could not evaluate roots around x = %g: %v", p.Coords[0], err)
					f.logger().Warn(msg)
					res.warn(msg)
				}
				f.setBounds(res, p, []float64{lo}, []float64{hi}, ok)
			}
		}
		res.Points = []CriticalPoint{p1, p2}
	}

	if chisq && (f.Config.ForceZeroX || (!res.Monotonic && x1 < 0)) {
		forceZeroCubic(f, res)
	}
	return nil
}

// analyzeQuadraticCubic 三次项为零时按 b·x² + c·x + d 处理，只有一个临界点
func analyzeQuadraticCubic(f *Fitter, res *Result) error {
	co := res.Coefficients
	b, c, d := co[1], co[2], co[3]
	chisq := res.DataType == types.DataChisq
	if b == 0 {
		res.Monotonic = true
		msg := "fit function degenerated to a line (no critical points)"
		f.logger().Warn(msg)
		res.warn(msg)
		if chisq && f.Config.ForceZeroX {
			forceZeroCubic(f, res)
		}
		return nil
	}

	msg := "cubic coefficient is zero, fit function degenerated to a quadratic"
	f.logger().Warn(msg)
	res.warn(msg)
	x0 := -c / (2 * b)
	pt := CriticalPoint{Coords: []float64{x0}, Value: res.Eval(x0), Kind: KindMinimum}
	if b < 0 {
		pt.Kind = KindMaximum
	}
	if chisq {
		lo, hi, ok := parabolaBounds(b, c, d, pt.Value, res.Delta)
		f.setBounds(res, &pt, []float64{lo}, []float64{hi}, ok)
	}
	res.Points = []CriticalPoint{pt}
	if chisq && (f.Config.ForceZeroX || x0 < 0) {
		forceZeroCubic(f, res)
	}
	return nil
}

// forceZeroCubic 假设最小值在 0：上界为 f(x) = f(0) + δ 在 0 以上最近的根
func forceZeroCubic(f *Fitter, res *Result) {
	tmp := res.Clone()
	co := tmp.Coefficients
	pt := CriticalPoint{Coords: []float64{0}, Value: tmp.Eval(0), Kind: KindMinimum}
	var roots []float64
	var err error
	if co[0] == 0 {
		roots = maths.QuadraticRoots(co[1], co[2], -tmp.Delta)
	} else {
		roots, err = maths.CubicRoots(co[0], co[1], co[2], -tmp.Delta)
	}
	if err == nil {
		var hi float64
		hi, err = maths.NearestRoot(roots, 0, true)
		if err == nil {
			pt.Lower, pt.Upper, pt.BoundsFound = []float64{-hi}, []float64{hi}, true
		}
	}
	if err != nil && !errors.Is(err, maths.ErrRootNotFound) {
		msg := fmt.Sprintf("could not evaluate roots assuming minimum at zero: %v", err)
		f.logger().Warn(msg)
		res.warn(msg)
	}
	f.storeZero(res, ZeroX, pt)
}

func isBad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
