package maths

// Epsilon float64 机器精度
const Epsilon = 0x1p-52

// Vector 通用向量接口
// 定义向量的基本操作
type Vector interface {
	// BuildFromDense 从稠密向量构建向量
	BuildFromDense(dense []float64)
	// Zero 清空向量，重置为零向量
	Zero()
	// Copy 将自身值复制到 a 向量
	Copy(a Vector)
	// Get 获取指定位置的元素值
	Get(index int) float64
	// Increment 增量设置向量元素（累加值）
	Increment(index int, value float64)
	// Length 返回向量长度
	Length() int
	// Set 设置向量元素值
	Set(index int, value float64)
	// String 返回向量的字符串表示
	String() string
	// ToDense 转换为稠密向量（返回副本）
	ToDense() []float64
}

// Matrix 通用矩阵接口
// 拟合使用的法方程矩阵规模很小（最大10×10），只提供稠密实现
type Matrix interface {
	// BuildFromDense 从稠密矩阵构建矩阵
	BuildFromDense(dense [][]float64)
	// Zero 清空矩阵，重置为零矩阵
	Zero()
	// Cols 返回矩阵列数
	Cols() int
	// Copy 将自身值复制到 a 矩阵
	Copy(a Matrix)
	// Get 获取指定位置的元素值
	Get(row int, col int) float64
	// Increment 增量设置矩阵元素（累加值）
	Increment(row int, col int, value float64)
	// IsSquare 检查矩阵是否为方阵
	IsSquare() bool
	// MatrixVectorMultiply 执行矩阵向量乘法
	MatrixVectorMultiply(x Vector) Vector
	// Rows 返回矩阵行数
	Rows() int
	// Set 设置矩阵元素值
	Set(row int, col int, value float64)
	// SwapRows 交换两行
	SwapRows(row1, row2 int)
	// Mirror 将上三角复制到下三角（对称矩阵只需填写上半部分）
	Mirror()
	// String 返回矩阵的字符串表示
	String() string
	// ToDense 转换为二维切片（返回副本）
	ToDense() [][]float64
}

// LU 稠密LU分解接口
// 定义LU分解的基本操作，支持部分主元法
type LU interface {
	// Decompose 执行LU分解
	// 参数：
	//   matrix - 待分解的方阵（不会被修改）
	// 返回：
	//   error - 如果矩阵奇异或接近奇异则返回错误
	Decompose(matrix Matrix) error
	// SolveReuse 解线性方程组 Ax = b，重用预分配的向量
	// 参数：
	//   b - 右侧向量
	//   x - 解向量（预分配，结果将存储在此）
	// 返回：
	//   error - 如果向量维度不匹配则返回错误
	SolveReuse(b, x Vector) error
	// Inverse 利用分解结果计算逆矩阵
	Inverse() (Matrix, error)
}
