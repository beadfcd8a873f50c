package fit

import (
	"fmt"
	"math"
	"strings"

	"gridfit/dataset"
	"gridfit/powsum"
	"gridfit/types"
)

// nearestGrid 各变量中与临界点坐标最近的网格值，没有临界点时返回 nil
func nearestGrid(ds *dataset.Dataset, res *Result) []float64 {
	if len(res.Points) == 0 {
		return nil
	}
	ref := res.Points[0].Coords
	fixed := make([]float64, res.NumVars)
	for i := range fixed {
		if i >= len(ref) {
			return nil
		}
		v, ok := ds.Nearest(i, ref[i])
		if !ok {
			return nil
		}
		fixed[i] = v
	}
	return fixed
}

// forms 生成供外部绘图工具使用的函数表达式
//
//	1d：每个变量一个表达式，绘图变量记为 x，其余变量代入固定网格值
//	2d：两个变量时一个关于 x、y 的曲面；三个变量时依次固定每个变量，其余两个记为 x、y
func forms(res *Result, mode types.PlotMode) []string {
	basis := basisFor(res.Model, res.NumVars)
	var out []string
	if mode == types.Plot2D && res.NumVars >= 2 {
		if res.NumVars == 2 {
			return []string{expression(basis, res.Coefficients, []string{"x", "y"})}
		}
		for fix := 0; fix < res.NumVars; fix++ {
			syms, ok := symbols(res, fix, "x", "y")
			if !ok {
				return nil
			}
			out = append(out, expression(basis, res.Coefficients, syms))
		}
		return out
	}
	for p := 0; p < res.NumVars; p++ {
		syms, ok := symbols1d(res, p)
		if !ok {
			return nil
		}
		out = append(out, expression(basis, res.Coefficients, syms))
	}
	return out
}

// symbols1d 变量 p 记为 x，其余代入固定值
func symbols1d(res *Result, p int) ([]string, bool) {
	if res.NumVars > 1 && len(res.Fixed) < res.NumVars {
		return nil, false
	}
	syms := make([]string, res.NumVars)
	for i := range syms {
		if i == p {
			syms[i] = "x"
		} else {
			syms[i] = fixedLiteral(res.Fixed[i])
		}
	}
	return syms, true
}

// symbols 变量 fix 代入固定值，其余变量按顺序使用 names
func symbols(res *Result, fix int, names ...string) ([]string, bool) {
	syms := make([]string, res.NumVars)
	k := 0
	for i := range syms {
		if i == fix {
			if len(res.Fixed) <= i {
				return nil, false
			}
			syms[i] = fixedLiteral(res.Fixed[i])
			continue
		}
		syms[i] = names[k]
		k++
	}
	return syms, true
}

func literal(v float64) string {
	return fmt.Sprintf("%.10E", v)
}

// fixedLiteral 代入的固定值加括号，负值的乘方才不会被解析为 -(v**p)
func fixedLiteral(v float64) string {
	return "(" + literal(v) + ")"
}

// expression 按基函数顺序展开为 a*(x**2) + b*x*y - ... 形式，负系数写作减号
func expression(basis []powsum.Exp, a []float64, syms []string) string {
	var sb strings.Builder
	for k, e := range basis {
		switch {
		case k == 0:
			sb.WriteString(literal(a[k]))
		case math.Signbit(a[k]):
			sb.WriteString(" - " + literal(-a[k]))
		default:
			sb.WriteString(" + " + literal(a[k]))
		}
		for v, p := range e {
			switch {
			case p == 0:
			case p == 1:
				sb.WriteString("*" + syms[v])
			default:
				fmt.Fprintf(&sb, "*(%s**%d)", syms[v], p)
			}
		}
	}
	return sb.String()
}
