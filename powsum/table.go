// Package powsum 计算拟合法方程所需的各阶幂和
package powsum

import (
	"fmt"

	"gridfit/dataset"
	"gridfit/types"
)

// Exp 单项式各变量的指数 x^Exp[0]·y^Exp[1]·z^Exp[2]
type Exp [types.MaxVars]int

// Degree 单项式总次数
func (e Exp) Degree() int {
	d := 0
	for _, p := range e {
		d += p
	}
	return d
}

// Add 单项式相乘（指数相加）
func (e Exp) Add(o Exp) Exp {
	var r Exp
	for i := range e {
		r[i] = e[i] + o[i]
	}
	return r
}

// Eval 在点 x 处计算单项式的值
func (e Exp) Eval(x []float64) float64 {
	v := 1.0
	for i, p := range e {
		for ; p > 0; p-- {
			v *= x[i]
		}
	}
	return v
}

const size = types.MaxPower + 1

// Table 幂和表
//
//	sum[a][b][c]  = Σ w·x^a·y^b·z^c
//	msum[a][b][c] = Σ w·m·x^a·y^b·z^c
//
// 其中 a+b+c <= MaxPower，w 为 1/σ²（加权）或 1。构建后只读。
type Table struct {
	numVars  int
	rows     int
	weighted bool
	sum      [size][size][size]float64
	msum     [size][size][size]float64
}

// New 由数据集构建幂和表，空数据集得到全零表
func New(ds *dataset.Dataset, weighted bool) *Table {
	t := &Table{numVars: ds.NumVars(), rows: ds.Len(), weighted: weighted}
	// 未使用变量的最高次数为 0
	var maxExp [types.MaxVars]int
	for v := 0; v < t.numVars; v++ {
		maxExp[v] = types.MaxPower
	}
	var pw [types.MaxVars][size]float64
	for _, r := range ds.All {
		w := 1.0
		if weighted {
			w = 1 / (r.Uncertainty * r.Uncertainty)
		}
		for v := range types.MaxVars {
			pw[v][0] = 1
			for p := 1; p <= maxExp[v]; p++ {
				pw[v][p] = pw[v][p-1] * r.X[v]
			}
		}
		for a := 0; a <= maxExp[0]; a++ {
			for b := 0; b <= min(maxExp[1], types.MaxPower-a); b++ {
				for c := 0; c <= min(maxExp[2], types.MaxPower-a-b); c++ {
					m := w * pw[0][a] * pw[1][b] * pw[2][c]
					t.sum[a][b][c] += m
					t.msum[a][b][c] += m * r.Value
				}
			}
		}
	}
	return t
}

// NumVars 自变量个数
func (t *Table) NumVars() int { return t.numVars }

// Len 参与求和的行数
func (t *Table) Len() int { return t.rows }

// Weighted 是否按 1/σ² 加权
func (t *Table) Weighted() bool { return t.weighted }

func (t *Table) check(e Exp) {
	if e.Degree() > types.MaxPower {
		panic(fmt.Sprintf("powsum: degree %d exceeds %d", e.Degree(), types.MaxPower))
	}
	for v := t.numVars; v < types.MaxVars; v++ {
		if e[v] != 0 {
			panic(fmt.Sprintf("powsum: variable %d not active", v+1))
		}
	}
}

// Sum Σ w·单项式
func (t *Table) Sum(e Exp) float64 {
	t.check(e)
	return t.sum[e[0]][e[1]][e[2]]
}

// ValueSum Σ w·m·单项式
func (t *Table) ValueSum(e Exp) float64 {
	t.check(e)
	return t.msum[e[0]][e[1]][e[2]]
}

// X Σ w·x_v^p
func (t *Table) X(v, p int) float64 {
	var e Exp
	e[v] = p
	return t.Sum(e)
}

// MX Σ w·m·x_v^p
func (t *Table) MX(v, p int) float64 {
	var e Exp
	e[v] = p
	return t.ValueSum(e)
}

// XX Σ w·x_i^a·x_j^b（i 可以等于 j）
func (t *Table) XX(i, a, j, b int) float64 {
	var e Exp
	e[i] += a
	e[j] += b
	return t.Sum(e)
}

// MXX Σ w·m·x_i^a·x_j^b
func (t *Table) MXX(i, a, j, b int) float64 {
	var e Exp
	e[i] += a
	e[j] += b
	return t.ValueSum(e)
}

// W Σ w
func (t *Table) W() float64 { return t.sum[0][0][0] }

// M Σ w·m
func (t *Table) M() float64 { return t.msum[0][0][0] }
