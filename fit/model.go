package fit

import (
	"fmt"
	"math"

	"gridfit/dataset"
	"gridfit/maths"
	"gridfit/powsum"
	"gridfit/types"
)

// 各模型的基函数（单项式）顺序即系数顺序
var (
	basisLine   = []powsum.Exp{{1, 0, 0}, {0, 0, 0}}
	basisCubic  = []powsum.Exp{{3, 0, 0}, {2, 0, 0}, {1, 0, 0}, {0, 0, 0}}
	basisParab1 = []powsum.Exp{{2, 0, 0}, {1, 0, 0}, {0, 0, 0}}
	// a·x² + b·y² + c·xy + d·x + e·y + g
	basisParab2 = []powsum.Exp{{2, 0, 0}, {0, 2, 0}, {1, 1, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 0}}
	// x², y², z², xy, xz, yz, x, y, z, 1
	basisParab3 = []powsum.Exp{
		{2, 0, 0}, {0, 2, 0}, {0, 0, 2},
		{1, 1, 0}, {1, 0, 1}, {0, 1, 1},
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{0, 0, 0},
	}
)

// basisFor 返回模型的基函数，不支持时返回 nil
func basisFor(model types.ModelType, numVars int) []powsum.Exp {
	switch model {
	case types.ModelLinear:
		return basisLine
	case types.ModelCubic:
		return basisCubic
	case types.ModelParaboloid:
		switch numVars {
		case 1:
			return basisParab1
		case 2:
			return basisParab2
		case 3:
			return basisParab3
		}
	}
	return nil
}

// evalBasis Σ a_k·基函数_k(x)
func evalBasis(basis []powsum.Exp, a []float64, x []float64) float64 {
	var pt [types.MaxVars]float64
	copy(pt[:], x)
	f := 0.0
	for k, e := range basis {
		f += a[k] * e.Eval(pt[:])
	}
	return f
}

// normalEquations 由幂和表组装法方程
// A[i][j] = Σ w·m_i·m_j，b[i] = Σ w·y·m_i
func normalEquations(t *powsum.Table, basis []powsum.Exp) (maths.Matrix, maths.Vector) {
	n := len(basis)
	a := maths.NewDenseMatrix(n, n)
	b := maths.NewDenseVector(n)
	for i := range basis {
		for j := i; j < n; j++ {
			a.Set(i, j, t.Sum(basis[i].Add(basis[j])))
		}
		b.Set(i, t.ValueSum(basis[i]))
	}
	a.Mirror()
	return a, b
}

// solveBasis 最小二乘求解系数，同时返回法方程逆矩阵
func solveBasis(t *powsum.Table, basis []powsum.Exp, model types.ModelType) ([]float64, maths.Matrix, error) {
	a, b := normalEquations(t, basis)
	x, inv, err := maths.Solve(a, b)
	if err != nil {
		return nil, nil, fmt.Errorf("%w (%s): %v; %s", ErrSingular, model, err, regionHint)
	}
	return x.ToDense(), inv, nil
}

// driver 模型驱动
//
//	solve   - 求解系数（Deming 回归的逆矩阵为 nil）
//	chiSq   - 计算 χ²，为 nil 时使用残差平方和
//	analyze - 求临界点、置信区间与零点约束
type driver struct {
	solve   func(f *Fitter, ds *dataset.Dataset) ([]float64, maths.Matrix, error)
	chiSq   func(f *Fitter, a []float64, ds *dataset.Dataset) float64
	analyze func(f *Fitter, res *Result) error
}

var drivers = map[types.ModelType]driver{}

// register 注册模型驱动
func register(model types.ModelType, d driver) {
	if _, ok := drivers[model]; ok {
		panic(fmt.Errorf("指定模型已经注册: %s", model))
	}
	drivers[model] = d
}

// polySolve 多项式模型通用的系数求解
func polySolve(f *Fitter, ds *dataset.Dataset) ([]float64, maths.Matrix, error) {
	t := powsum.New(ds, f.Config.Weighted)
	return solveBasis(t, basisFor(f.Config.Model, f.Config.NumVars), f.Config.Model)
}

// residualChiSq Σ((m - f(x))/σ)²
func residualChiSq(basis []powsum.Exp, a []float64, ds *dataset.Dataset) float64 {
	chisq := 0.0
	for _, r := range ds.All {
		d := (r.Value - evalBasis(basis, a, r.X[:])) / r.Uncertainty
		chisq += d * d
	}
	return chisq
}

func perNDF(chisq float64, ndf int) float64 {
	if ndf == 0 {
		return math.NaN()
	}
	return chisq / float64(ndf)
}
