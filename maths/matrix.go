package maths

import (
	"fmt"
	"strings"
)

// denseMatrix 行优先存储的稠密矩阵
type denseMatrix struct {
	*DataManager
	rows, cols int
}

// NewDenseMatrix rows×cols 零矩阵
func NewDenseMatrix(rows, cols int) Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("maths: negative matrix size %dx%d", rows, cols))
	}
	return &denseMatrix{DataManager: NewDataManager(rows * cols), rows: rows, cols: cols}
}

// NewIdentityMatrix n 阶单位矩阵
func NewIdentityMatrix(n int) Matrix {
	m := NewDenseMatrix(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func (m *denseMatrix) at(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("maths: index (%d,%d) out of range for %dx%d matrix", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

func (m *denseMatrix) Rows() int      { return m.rows }
func (m *denseMatrix) Cols() int      { return m.cols }
func (m *denseMatrix) IsSquare() bool { return m.rows == m.cols }

func (m *denseMatrix) Get(row, col int) float64 { return m.data[m.at(row, col)] }

func (m *denseMatrix) Set(row, col int, value float64) { m.data[m.at(row, col)] = value }

func (m *denseMatrix) Increment(row, col int, value float64) { m.data[m.at(row, col)] += value }

// BuildFromDense 按二维切片覆盖全部元素
func (m *denseMatrix) BuildFromDense(dense [][]float64) {
	if len(dense) != m.rows {
		panic(fmt.Sprintf("maths: build %dx%d matrix from %d rows", m.rows, m.cols, len(dense)))
	}
	for i, row := range dense {
		if len(row) != m.cols {
			panic(fmt.Sprintf("maths: row %d has %d values, want %d", i, len(row), m.cols))
		}
		copy(m.data[i*m.cols:], row)
	}
}

// Copy 复制到同维度矩阵 a
func (m *denseMatrix) Copy(a Matrix) {
	if a.Rows() != m.rows || a.Cols() != m.cols {
		panic(fmt.Sprintf("maths: copy %dx%d matrix into %dx%d", m.rows, m.cols, a.Rows(), a.Cols()))
	}
	if target, ok := a.(*denseMatrix); ok {
		m.DataManager.Copy(target.DataManager)
		return
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			a.Set(i, j, m.Get(i, j))
		}
	}
}

// SwapRows 交换两行
func (m *denseMatrix) SwapRows(r1, r2 int) {
	if r1 == r2 {
		return
	}
	a, b := m.data[m.at(r1, 0):m.at(r1, 0)+m.cols], m.data[m.at(r2, 0):m.at(r2, 0)+m.cols]
	for j := range a {
		a[j], b[j] = b[j], a[j]
	}
}

// Mirror 上三角复制到下三角，法方程只累加上三角
func (m *denseMatrix) Mirror() {
	if !m.IsSquare() {
		panic(fmt.Sprintf("maths: mirror %dx%d matrix", m.rows, m.cols))
	}
	for i := 1; i < m.rows; i++ {
		for j := 0; j < i; j++ {
			m.Set(i, j, m.Get(j, i))
		}
	}
}

// MatrixVectorMultiply 返回 m·x
func (m *denseMatrix) MatrixVectorMultiply(x Vector) Vector {
	if x.Length() != m.cols {
		panic(fmt.Sprintf("maths: multiply %dx%d matrix by vector of length %d", m.rows, m.cols, x.Length()))
	}
	y := NewDenseVector(m.rows)
	for i := 0; i < m.rows; i++ {
		s := 0.0
		for j := 0; j < m.cols; j++ {
			s += m.Get(i, j) * x.Get(j)
		}
		y.Set(i, s)
	}
	return y
}

func (m *denseMatrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		sb.WriteByte('[')
		for j := 0; j < m.cols; j++ {
			fmt.Fprintf(&sb, "%12.4e ", m.Get(i, j))
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

// ToDense 按行复制为二维切片
func (m *denseMatrix) ToDense() [][]float64 {
	out := make([][]float64, m.rows)
	for i := range out {
		out[i] = append([]float64(nil), m.data[i*m.cols:(i+1)*m.cols]...)
	}
	return out
}
