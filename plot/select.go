// Package plot 生成拟合结果的图像、交互图表与 gnuplot 脚本
package plot

import (
	"errors"
	"fmt"
	"slices"

	"gridfit/dataset"
	"gridfit/fit"
	"gridfit/types"
)

// 绘图数据选择错误
var (
	ErrMode       = errors.New("plot: plotting mode is not available for this data")
	ErrNoCritical = errors.New("plot: no critical point to fix non-plotted variables")
)

// Slice 一幅图的数据
//
//	曲线：Axis 为绘图变量，其余变量等于 Fixed 中的网格值
//	曲面：两个变量时 Axis 为 -1，使用全部数据；三个变量时 Axis 为固定的变量
type Slice struct {
	Axis    int           `json:"axis"`
	Surface bool          `json:"surface"`
	Fixed   []float64     `json:"fixed,omitempty"`
	Form    string        `json:"form,omitempty"`
	Rows    []dataset.Row `json:"-"`
}

// Free 图中作为坐标轴的变量
func (s Slice) Free(numVars int) []int {
	if !s.Surface {
		return []int{s.Axis}
	}
	var free []int
	for v := 0; v < numVars; v++ {
		if v != s.Axis {
			free = append(free, v)
		}
	}
	return free
}

// Select 按绘图方式选出各幅图的数据点
func Select(res *fit.Result, ds *dataset.Dataset, mode types.PlotMode) ([]Slice, error) {
	n := res.NumVars
	surface2 := mode == types.Plot2D && n == 2
	if n > 1 && !surface2 && len(res.Fixed) < n {
		return nil, ErrNoCritical
	}
	var out []Slice
	switch {
	case surface2:
		out = []Slice{{Axis: -1, Surface: true, Rows: ds.Rows()}}
	case mode == types.Plot2D && n == 3:
		for i := range n {
			fixed := res.Fixed[i]
			out = append(out, Slice{
				Axis:    i,
				Surface: true,
				Fixed:   res.Fixed,
				Rows:    rows(ds, func(r dataset.Row) bool { return r.X[i] == fixed }),
			})
		}
	case mode == types.Plot1D || mode == types.PlotNone:
		for i := range n {
			s := Slice{Axis: i}
			if n > 1 {
				s.Fixed = res.Fixed
			}
			s.Rows = rows(ds, func(r dataset.Row) bool {
				for k := range n {
					if k != i && r.X[k] != res.Fixed[k] {
						return false
					}
				}
				return true
			})
			out = append(out, s)
		}
	default:
		return nil, fmt.Errorf("%w: mode %s with %d variable(s)", ErrMode, mode, n)
	}
	if len(res.Forms) == len(out) {
		for i := range out {
			out[i].Form = res.Forms[i]
		}
	}
	return out, nil
}

func rows(ds *dataset.Dataset, keep func(dataset.Row) bool) []dataset.Row {
	var out []dataset.Row
	for _, r := range ds.All {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// evalAt 在 Fixed 基础上替换自由变量求拟合值
func evalAt(res *fit.Result, s Slice, free []int, vals ...float64) float64 {
	x := make([]float64, res.NumVars)
	copy(x, s.Fixed)
	for i, v := range free {
		x[v] = vals[i]
	}
	return res.Eval(x...)
}

// axisLabel 坐标轴名称
func axisLabel(v int) string {
	return fmt.Sprintf("Parameter %d", v+1)
}

// span 第 v 个变量的取值范围
func span(rs []dataset.Row, v int) (lo, hi float64, ok bool) {
	for i, r := range rs {
		if i == 0 || r.X[v] < lo {
			lo = r.X[v]
		}
		if i == 0 || r.X[v] > hi {
			hi = r.X[v]
		}
	}
	return lo, hi, len(rs) > 0
}

// gridValues 第 v 个变量的不同取值（升序）
func gridValues(rs []dataset.Row, v int) []float64 {
	vals := make([]float64, 0, len(rs))
	for _, r := range rs {
		vals = append(vals, r.X[v])
	}
	slices.Sort(vals)
	return slices.Compact(vals)
}
