package fit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"gridfit/maths"
	"gridfit/types"
)

func init() {
	register(types.ModelParaboloid, driver{
		solve:   polySolve,
		analyze: analyzeParaboloid,
	})
}

// analyzeParaboloid 求抛物面顶点并分类，chisq 数据计算置信区间和零点约束
func analyzeParaboloid(f *Fitter, res *Result) error {
	switch res.NumVars {
	case 1:
		return analyzeParabola(f, res)
	case 2:
		return analyzeParaboloid2(f, res)
	default:
		return analyzeParaboloid3(f, res)
	}
}

// analyzeParabola f(x) = a·x² + b·x + c
func analyzeParabola(f *Fitter, res *Result) error {
	a, b, c := res.Coefficients[0], res.Coefficients[1], res.Coefficients[2]
	if a == 0 {
		return fmt.Errorf("%w: quadratic coefficient is zero", ErrNoVertex)
	}
	x0 := -b / (2 * a)
	pt := CriticalPoint{Coords: []float64{x0}, Value: res.Eval(x0), Kind: KindMinimum}
	if a < 0 {
		pt.Kind = KindMaximum
	}
	chisq := res.DataType == types.DataChisq
	if chisq {
		lo, hi, ok := parabolaBounds(a, b, c, pt.Value, res.Delta)
		f.setBounds(res, &pt, []float64{lo}, []float64{hi}, ok)
	}
	res.Points = []CriticalPoint{pt}
	if chisq && (f.Config.ForceZeroX || x0 < 0) {
		forceZeroParabola(f, res)
	}
	return nil
}

// analyzeParaboloid2 f(x,y) = a·x² + b·y² + c·xy + d·x + e·y + g
func analyzeParaboloid2(f *Fitter, res *Result) error {
	co := res.Coefficients
	a, b, c, d, e := co[0], co[1], co[2], co[3], co[4]

	// 梯度为零：[2a c; c 2b]·[x y]ᵀ = [-d -e]ᵀ
	grad := maths.NewDenseMatrix(2, 2)
	grad.BuildFromDense([][]float64{{2 * a, c}, {c, 2 * b}})
	v, _, err := maths.Solve(grad, maths.NewDenseVectorWithData([]float64{-d, -e}))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoVertex, err)
	}
	vertex := v.ToDense()
	pt := CriticalPoint{Coords: vertex, Value: res.Eval(vertex...)}

	// Hessian 行列式判别
	hdet := 4*a*b - c*c
	switch {
	case hdet > 0 && a >= 0:
		pt.Kind = KindMinimum
	case hdet > 0:
		pt.Kind = KindMaximum
	default:
		pt.Kind = KindSaddle
	}

	chisq := res.DataType == types.DataChisq && pt.Kind != KindSaddle
	if chisq {
		lo, hi, found := paraboloid2Bounds(co, pt.Value, res.Delta)
		f.setBounds(res, &pt, lo[:], hi[:], found[0] && found[1])
	}
	res.Points = []CriticalPoint{pt}
	if chisq {
		forceZeroParaboloid2(f, res)
	}
	return nil
}

// analyzeParaboloid3 f = a·x² + b·y² + c·z² + d·xy + e·xz + f·yz + g·x + h·y + i·z + j
func analyzeParaboloid3(f *Fitter, res *Result) error {
	co := res.Coefficients
	hess := [][]float64{
		{2 * co[0], co[3], co[4]},
		{co[3], 2 * co[1], co[5]},
		{co[4], co[5], 2 * co[2]},
	}
	h := maths.NewDenseMatrix(3, 3)
	h.BuildFromDense(hess)
	v, hinv, err := maths.Solve(h, maths.NewDenseVectorWithData([]float64{-co[6], -co[7], -co[8]}))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoVertex, err)
	}
	vertex := v.ToDense()
	pt := CriticalPoint{Coords: vertex, Value: res.Eval(vertex...), Kind: classifyHessian(hess)}

	if res.DataType == types.DataChisq && pt.Kind != KindSaddle {
		lo, hi, ok := paraboloid3Bounds(vertex, hinv, res.Delta)
		f.setBounds(res, &pt, lo, hi, ok)
	}
	res.Points = []CriticalPoint{pt}
	if f.Config.ForceZeroX || f.Config.ForceZeroY {
		msg := "zero-forcing is only available for one or two variables"
		f.logger().Warn(msg)
		res.warn(msg)
	}
	return nil
}

// classifyHessian 按特征值符号分类临界点
func classifyHessian(hess [][]float64) Kind {
	n := len(hess)
	sym := mat.NewSymDense(n, nil)
	for i := range n {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, hess[i][j])
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(sym, false) {
		return KindNone
	}
	pos, neg := 0, 0
	for _, ev := range eig.Values(nil) {
		switch {
		case ev > 0:
			pos++
		case ev < 0:
			neg++
		}
	}
	switch {
	case pos == n:
		return KindMinimum
	case neg == n:
		return KindMaximum
	default:
		return KindSaddle
	}
}

// setBounds 写入置信区间，未找到时记录警告
func (f *Fitter) setBounds(res *Result, pt *CriticalPoint, lower, upper []float64, ok bool) {
	pt.Lower, pt.Upper, pt.BoundsFound = lower, upper, ok
	if !ok {
		msg := fmt.Sprintf("confidence bounds not found for the %s at %v", pt.Kind, pt.Coords)
		f.logger().Warn(msg)
		res.warn(msg)
	}
}
