package maths

import (
	"errors"
	"math"
	"sort"
)

var (
	// ErrDegenerateRoots 三次方程退化（无法用三角/双曲公式求根）
	ErrDegenerateRoots = errors.New("cubic roots: degenerate coefficients")
	// ErrRootNotFound 参考点指定方向上没有根
	ErrRootNotFound = errors.New("no root on requested side")
)

// QuadraticRoots 求 a·x² + b·x + c = 0 的实根（升序）
// 判别式为负时返回 nil
func QuadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	s := math.Sqrt(disc)
	r1 := (-b - s) / (2 * a)
	r2 := (-b + s) / (2 * a)
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return []float64{r1, r2}
}

// CubicDiscriminant 三次多项式 a·x³ + b·x² + c·x + d 的判别式
func CubicDiscriminant(a, b, c, d float64) float64 {
	return 18*a*b*c*d - 4*b*b*b*d + b*b*c*c - 4*a*c*c*c - 27*a*a*d*d
}

// CubicRoots 求 a·x³ + b·x² + c·x + d = 0 的实根
//
//	判别式 > 0：三角公式，三个不同实根
//	判别式 = 0：重根（三重根或二重根+单根）；b² ≈ 3ac 时判别式略为正也视为三重根
//	判别式 < 0：双曲公式，一个实根
//
// 根按升序返回。a 为零或无法用上述公式处理时返回 ErrDegenerateRoots。
func CubicRoots(a, b, c, d float64) ([]float64, error) {
	if a == 0 {
		return nil, ErrDegenerateRoots
	}
	// 化为缺项三次方程 t³ + p·t + q = 0，x = t - b/3a
	p := (3*a*c - b*b) / (3 * a * a)
	q := (2*b*b*b - 9*a*b*c + 27*a*a*d) / (27 * a * a * a)
	shift := -b / (3 * a)
	disc := CubicDiscriminant(a, b, c, d)

	// b² 与 3ac 在舍入误差内相等时按三重根处理
	triple := math.Abs(b*b-3*a*c) <= 8*Epsilon*math.Max(b*b, math.Abs(3*a*c))

	var roots []float64
	switch {
	case disc >= 0 && triple:
		roots = []float64{shift}
	case disc > 0 && p < 0:
		m := 2 * math.Sqrt(-p/3)
		arg := 3 * q / (2 * p) * math.Sqrt(-3/p)
		// 舍入误差可能使 arg 略超出 [-1, 1]
		arg = math.Max(-1, math.Min(1, arg))
		theta := math.Acos(arg) / 3
		for k := 0; k < 3; k++ {
			roots = append(roots, m*math.Cos(theta-2*math.Pi*float64(k)/3)+shift)
		}
	case disc == 0:
		double := (9*a*d - b*c) / (2 * (b*b - 3*a*c))
		single := (4*a*b*c - 9*a*a*d - b*b*b) / (a * (b*b - 3*a*c))
		roots = []float64{double, single}
	case p > 0:
		// p > 0 时只有一个实根，判别式为正来自舍入
		t := -2 * math.Sqrt(p/3) * math.Sinh(math.Asinh(3*q/(2*p)*math.Sqrt(3/p))/3)
		roots = []float64{t + shift}
	case p < 0 && 4*p*p*p+27*q*q > 0:
		arg := math.Max(1, -3*math.Abs(q)/(2*p)*math.Sqrt(-3/p))
		t := -2 * math.Copysign(1, q) * math.Sqrt(-p/3) * math.Cosh(math.Acosh(arg)/3)
		roots = []float64{t + shift}
	default:
		return nil, ErrDegenerateRoots
	}
	sort.Float64s(roots)
	return roots, nil
}

// NearestRoot 返回参考点 ref 一侧最近的根
// above 为真时取 root >= ref 中最小者，否则取 root < ref 中最大者
func NearestRoot(roots []float64, ref float64, above bool) (float64, error) {
	found := false
	best := 0.0
	for _, r := range roots {
		diff := r - ref
		if above {
			if diff >= 0 && (!found || diff < best-ref) {
				best, found = r, true
			}
			continue
		}
		if diff < 0 && (!found || diff > best-ref) {
			best, found = r, true
		}
	}
	if !found {
		return 0, ErrRootNotFound
	}
	return best, nil
}
