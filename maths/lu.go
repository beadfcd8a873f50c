package maths

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingular 矩阵奇异或接近奇异
var ErrSingular = errors.New("lu dense decompose: matrix is singular or nearly singular")

// NewLU 创建 n 阶稠密矩阵的 LU 分解器
func NewLU(n int) (LU, error) {
	if n < 1 {
		return nil, fmt.Errorf("lu dense: dimension %d must be positive", n)
	}
	return &luDense{
		n:     n,
		lu:    NewDenseMatrix(n, n),
		noise: NewDenseMatrix(n, n),
		perm:  make([]int, n),
		work:  NewDenseVector(n),
	}, nil
}

// luDense 紧凑存储的 LU 分解（PA = LU，部分主元）
//
//	严格下三角：L 的消元因子（L 对角线隐含为 1）
//	上三角含对角线：U
type luDense struct {
	n     int
	lu    Matrix
	noise Matrix // 消元中各元素累计的绝对值，衡量舍入误差的量级
	perm  []int  // perm[i] 为分解后第 i 行对应的原始行
	work  Vector // 前向替换结果
	ready bool
}

// Decompose 分解 matrix，matrix 本身不被修改
// 主元不超过 n·Epsilon 乘以其累计绝对值（即与舍入误差无法区分）时返回 ErrSingular
func (d *luDense) Decompose(matrix Matrix) error {
	if !matrix.IsSquare() {
		return fmt.Errorf("lu dense decompose: %dx%d matrix is not square", matrix.Rows(), matrix.Cols())
	}
	if matrix.Rows() != d.n {
		return fmt.Errorf("lu dense decompose: dimension %d, want %d", matrix.Rows(), d.n)
	}
	d.ready = false
	matrix.Copy(d.lu)
	for i := range d.perm {
		d.perm[i] = i
		for j := 0; j < d.n; j++ {
			d.noise.Set(i, j, math.Abs(d.lu.Get(i, j)))
		}
	}
	tol := float64(d.n) * Epsilon

	for k := 0; k < d.n; k++ {
		// 列 k 中绝对值最大的行作为主元
		p, pv := k, math.Abs(d.lu.Get(k, k))
		for i := k + 1; i < d.n; i++ {
			if v := math.Abs(d.lu.Get(i, k)); v > pv {
				p, pv = i, v
			}
		}
		if pv == 0 || pv <= tol*d.noise.Get(p, k) {
			return ErrSingular
		}
		// 紧凑存储下整行交换同时交换已求出的消元因子
		if p != k {
			d.lu.SwapRows(k, p)
			d.noise.SwapRows(k, p)
			d.perm[k], d.perm[p] = d.perm[p], d.perm[k]
		}
		pivot := d.lu.Get(k, k)
		for i := k + 1; i < d.n; i++ {
			f := d.lu.Get(i, k) / pivot
			d.lu.Set(i, k, f)
			if f == 0 {
				continue
			}
			for j := k + 1; j < d.n; j++ {
				d.lu.Increment(i, j, -f*d.lu.Get(k, j))
				d.noise.Increment(i, j, math.Abs(f)*d.noise.Get(k, j))
			}
		}
	}
	d.ready = true
	return nil
}

// SolveReuse 求解 A·x = b，结果写入 x
func (d *luDense) SolveReuse(b, x Vector) error {
	if !d.ready {
		return errors.New("lu dense solve: matrix not decomposed")
	}
	if b.Length() != d.n || x.Length() != d.n {
		return fmt.Errorf("lu dense solve: vector length %d/%d, want %d", b.Length(), x.Length(), d.n)
	}
	// L·y = P·b
	for i := 0; i < d.n; i++ {
		s := b.Get(d.perm[i])
		for j := 0; j < i; j++ {
			s -= d.lu.Get(i, j) * d.work.Get(j)
		}
		d.work.Set(i, s)
	}
	// U·x = y
	for i := d.n - 1; i >= 0; i-- {
		s := d.work.Get(i)
		for j := i + 1; j < d.n; j++ {
			s -= d.lu.Get(i, j) * x.Get(j)
		}
		x.Set(i, s/d.lu.Get(i, i))
	}
	return nil
}

// Inverse 逐列求解 A·X = I
func (d *luDense) Inverse() (Matrix, error) {
	inv := NewDenseMatrix(d.n, d.n)
	e := NewDenseVector(d.n)
	col := NewDenseVector(d.n)
	for j := 0; j < d.n; j++ {
		e.Zero()
		e.Set(j, 1)
		if err := d.SolveReuse(e, col); err != nil {
			return nil, err
		}
		for i := 0; i < d.n; i++ {
			inv.Set(i, j, col.Get(i))
		}
	}
	return inv, nil
}
