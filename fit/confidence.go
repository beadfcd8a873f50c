package fit

import (
	"math"

	"gridfit/maths"
)

// boundPair 求 A·t² + B·t + C(δ) = 0 的两根作为置信区间 (lower, upper)
// 判别式为负时用 -δ 重试一次（经验性回退，没有推导上的保证），仍为负则未找到
func boundPair(A, B float64, C func(delta float64) float64, delta float64) (lower, upper float64, ok bool) {
	if A == 0 {
		return 0, 0, false
	}
	c := C(delta)
	disc := B*B - 4*A*c
	if disc < 0 {
		c = C(-delta)
		disc = B*B - 4*A*c
	}
	if disc < 0 {
		return 0, 0, false
	}
	s := math.Sqrt(disc)
	upper = (-B + s) / (2 * A)
	lower = (-B - s) / (2 * A)
	if lower > upper {
		lower, upper = upper, lower
	}
	return lower, upper, true
}

// parabolaBounds 一元抛物线 a·x² + b·x + c 在 f = vmin + δ 处的区间
func parabolaBounds(a, b, c, vmin, delta float64) (lower, upper float64, ok bool) {
	return boundPair(a, b, func(d float64) float64 { return c - d - vmin }, delta)
}

// paraboloid2Bounds 二元抛物面的置信区间
// 令 f(x,y) = vmin + δ，把 y 看作 x 的函数用求根公式解出，
// 要求根号下的表达式为零得到 x 的边界（y 同理）
func paraboloid2Bounds(co []float64, vmin, delta float64) (lower, upper [2]float64, found [2]bool) {
	a, b, c, d, e, g := co[0], co[1], co[2], co[3], co[4], co[5]
	hdet := 4*a*b - c*c
	lower[0], upper[0], found[0] = boundPair(hdet, 4*b*d-2*c*e,
		func(dl float64) float64 { return 4*b*(g-dl-vmin) - e*e }, delta)
	lower[1], upper[1], found[1] = boundPair(hdet, 4*a*e-2*c*d,
		func(dl float64) float64 { return 4*a*(g-dl-vmin) - d*d }, delta)
	return lower, upper, found
}

// paraboloid3Bounds 三元抛物面的置信区间
// 椭球 ½·dᵀ·H·d = δ 在各坐标轴上的投影：x_i ± sqrt(2δ·(H⁻¹)_ii)
func paraboloid3Bounds(vertex []float64, hinv maths.Matrix, delta float64) (lower, upper []float64, ok bool) {
	lower = make([]float64, len(vertex))
	upper = make([]float64, len(vertex))
	ok = true
	for i, x := range vertex {
		q := 2 * delta * hinv.Get(i, i)
		if q < 0 {
			q = -q // 最大值处 H⁻¹ 为负定，等价于 -δ 回退
		}
		if math.IsNaN(q) {
			ok = false
			continue
		}
		h := math.Sqrt(q)
		lower[i], upper[i] = x-h, x+h
	}
	return lower, upper, ok
}

// cubicBounds 三次函数临界点 pt 的置信区间
// 最小值处求 f(x) = f(pt) + δ 的根，最大值处求 f(x) = f(pt) - δ 的根；
// 只有恰好三个实根且 pt 两侧都有根时区间存在
func cubicBounds(co []float64, pt float64, minimum bool, delta float64) (lower, upper float64, ok bool, err error) {
	a, b, c, d := co[0], co[1], co[2], co[3]
	target := a*pt*pt*pt + b*pt*pt + c*pt + d
	if minimum {
		target += delta
	} else {
		target -= delta
	}
	roots, err := maths.CubicRoots(a, b, c, d-target)
	if err != nil {
		return 0, 0, false, err
	}
	if len(roots) != 3 {
		return 0, 0, false, nil
	}
	upper, errU := maths.NearestRoot(roots, pt, true)
	lower, errL := maths.NearestRoot(roots, pt, false)
	if errU != nil || errL != nil {
		return 0, 0, false, nil
	}
	return lower, upper, true, nil
}
