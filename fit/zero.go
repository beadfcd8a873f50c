package fit

import (
	"fmt"
)

// zeroMode 由配置或顶点坐标的符号确定零点约束方式
// 未强制指定时，负的顶点坐标自动固定为 0
func zeroMode(cfg Config, vertex []float64) ZeroMode {
	switch {
	case cfg.ForceZeroX && cfg.ForceZeroY:
		return ZeroXY
	case cfg.ForceZeroX:
		return ZeroX
	case cfg.ForceZeroY:
		return ZeroY
	}
	switch {
	case vertex[0] < 0 && vertex[1] < 0:
		return ZeroXY
	case vertex[0] < 0:
		return ZeroX
	case vertex[1] < 0:
		return ZeroY
	}
	return ZeroNone
}

// forceZeroParabola 一元抛物线假设最小值在 0：
// 上界取 f(x) = f(0) + δ 的较大根，下界镜像
func forceZeroParabola(f *Fitter, res *Result) {
	tmp := res.Clone()
	a, b, c := tmp.Coefficients[0], tmp.Coefficients[1], tmp.Coefficients[2]
	pt := CriticalPoint{Coords: []float64{0}, Value: tmp.Eval(0), Kind: tmp.Points[0].Kind}
	_, hi, ok := parabolaBounds(a, b, c, pt.Value, tmp.Delta)
	pt.Lower, pt.Upper, pt.BoundsFound = []float64{-hi}, []float64{hi}, ok
	f.storeZero(res, ZeroX, pt)
}

// forceZeroParaboloid2 二元抛物面的零点约束子问题
//
//	x 固定：顶点 (0, -e/2b)，x 上界由二维区间得到并镜像，y 区间取 x = 0 截面抛物线 b·y² + e·y + g
//	y 固定：对称处理，x 区间取 y = 0 截面抛物线 a·x² + d·x + g
//	都固定：顶点 (0,0)，二维区间；原顶点坐标异号时，负坐标一侧的截面抛物线替换另一变量的区间
//
// 全部计算在结果副本上进行，原结果只增加 ZeroForced
func forceZeroParaboloid2(f *Fitter, res *Result) {
	vertex := res.Points[0].Coords
	mode := zeroMode(f.Config, vertex)
	if mode == ZeroNone {
		return
	}
	tmp := res.Clone()
	co := tmp.Coefficients
	a, b, d, e, g := co[0], co[1], co[3], co[4], co[5]
	delta := tmp.Delta

	pt := CriticalPoint{Kind: tmp.Points[0].Kind}
	switch mode {
	case ZeroX:
		pt.Coords = []float64{0, -e / (2 * b)}
	case ZeroY:
		pt.Coords = []float64{-d / (2 * a), 0}
	default:
		pt.Coords = []float64{0, 0}
	}
	pt.Value = tmp.Eval(pt.Coords...)
	lo, hi, found := paraboloid2Bounds(co, pt.Value, delta)

	switch mode {
	case ZeroX:
		lo[0] = -hi[0]
		lo[1], hi[1], found[1] = parabolaBounds(b, e, g, pt.Value, delta)
	case ZeroY:
		lo[1] = -hi[1]
		lo[0], hi[0], found[0] = parabolaBounds(a, d, g, pt.Value, delta)
	case ZeroXY:
		if (vertex[0] >= 0) != (vertex[1] >= 0) {
			if vertex[0] < 0 {
				lo[1], hi[1], found[1] = parabolaBounds(b, e, g, pt.Value, delta)
			}
			if vertex[1] < 0 {
				lo[0], hi[0], found[0] = parabolaBounds(a, d, g, pt.Value, delta)
			}
		}
	}
	pt.Lower, pt.Upper, pt.BoundsFound = lo[:], hi[:], found[0] && found[1]
	f.storeZero(res, mode, pt)
}

func (f *Fitter) storeZero(res *Result, mode ZeroMode, pt CriticalPoint) {
	res.ZeroForced = &ZeroForced{Mode: mode, Point: pt}
	if !pt.BoundsFound {
		msg := fmt.Sprintf("confidence bounds not found assuming minimum at zero for %s", mode)
		f.logger().Warn(msg)
		res.warn(msg)
	}
}
