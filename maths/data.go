package maths

import "fmt"

// DataManager 向量与矩阵共用的一维存储
type DataManager struct {
	data []float64
}

// NewDataManager 长度为 n 的零值存储
func NewDataManager(n int) *DataManager {
	return &DataManager{data: make([]float64, n)}
}

// NewDataManagerWithData 直接使用 data 作为存储（不复制）
func NewDataManagerWithData(data []float64) *DataManager {
	return &DataManager{data: data}
}

func (dm *DataManager) Length() int                    { return len(dm.data) }
func (dm *DataManager) Get(i int) float64              { return dm.data[i] }
func (dm *DataManager) Set(i int, value float64)       { dm.data[i] = value }
func (dm *DataManager) Increment(i int, value float64) { dm.data[i] += value }
func (dm *DataManager) Zero()                          { clear(dm.data) }
func (dm *DataManager) String() string                 { return fmt.Sprint(dm.data) }

// DataCopy 存储内容的副本
func (dm *DataManager) DataCopy() []float64 {
	return append([]float64(nil), dm.data...)
}

// Copy 复制到等长的 target
func (dm *DataManager) Copy(target *DataManager) {
	if len(dm.data) != len(target.data) {
		panic(fmt.Sprintf("maths: copy length %d into %d", len(dm.data), len(target.data)))
	}
	copy(target.data, dm.data)
}
