package maths

import "fmt"

// Solve 高斯消元（部分主元）求解 A·x = b，同时返回 A 的逆矩阵
// 输入矩阵 a 与向量 b 不会被修改
func Solve(a Matrix, b Vector) (Vector, Matrix, error) {
	if !a.IsSquare() {
		return nil, nil, fmt.Errorf("solve: %dx%d matrix is not square", a.Rows(), a.Cols())
	}
	if b.Length() != a.Rows() {
		return nil, nil, fmt.Errorf("solve: right side length %d, want %d", b.Length(), a.Rows())
	}
	lu, err := NewLU(a.Rows())
	if err != nil {
		return nil, nil, err
	}
	if err := lu.Decompose(a); err != nil {
		return nil, nil, err
	}
	x := NewDenseVector(a.Rows())
	if err := lu.SolveReuse(b, x); err != nil {
		return nil, nil, err
	}
	inv, err := lu.Inverse()
	if err != nil {
		return nil, nil, err
	}
	return x, inv, nil
}
