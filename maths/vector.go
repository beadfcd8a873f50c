package maths

import "fmt"

// denseVector 稠密向量
type denseVector struct {
	*DataManager
}

// NewDenseVector 长度为 n 的零向量
func NewDenseVector(n int) Vector {
	return &denseVector{DataManager: NewDataManager(n)}
}

// NewDenseVectorWithData 以 data 为存储的向量（不复制）
func NewDenseVectorWithData(data []float64) Vector {
	return &denseVector{DataManager: NewDataManagerWithData(data)}
}

// BuildFromDense 覆盖全部元素
func (v *denseVector) BuildFromDense(dense []float64) {
	if len(dense) != v.Length() {
		panic(fmt.Sprintf("maths: build vector of length %d from %d values", v.Length(), len(dense)))
	}
	copy(v.data, dense)
}

// Copy 复制到 a
func (v *denseVector) Copy(a Vector) {
	if target, ok := a.(*denseVector); ok {
		v.DataManager.Copy(target.DataManager)
		return
	}
	for i := 0; i < v.Length(); i++ {
		a.Set(i, v.Get(i))
	}
}

// ToDense 元素副本
func (v *denseVector) ToDense() []float64 {
	return v.DataCopy()
}
