// Package dataset 保存待拟合的网格数据点及其准入范围
package dataset

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gridfit/types"
)

var (
	ErrCapacity   = errors.New("dataset: capacity exceeded")
	ErrInvalidRow = errors.New("dataset: invalid row")
	ErrNoData     = errors.New("dataset: no data")
)

// Row 单个数据点
type Row struct {
	X           [types.MaxVars]float64 // 自变量（未使用的分量为 0）
	Value       float64                // 响应值
	Uncertainty float64                // 不确定度（权重 1/σ²）
}

// Limits 各变量的准入上下限（闭区间）
type Limits struct {
	Lower [types.MaxVars]float64
	Upper [types.MaxVars]float64
}

// NoLimits 返回不限制任何变量的范围
func NoLimits() Limits {
	var l Limits
	for i := range types.MaxVars {
		l.Lower[i] = math.Inf(-1)
		l.Upper[i] = math.Inf(1)
	}
	return l
}

// Contains 判断数据点前 numVars 个变量是否在范围内
func (l Limits) Contains(r Row, numVars int) bool {
	for i := 0; i < numVars; i++ {
		if r.X[i] < l.Lower[i] || r.X[i] > l.Upper[i] {
			return false
		}
	}
	return true
}

// Dataset 有序数据集
// 行按插入顺序保存，超出容量时拒绝准入
type Dataset struct {
	numVars  int
	capacity int
	limits   Limits
	rows     []Row
	skipped  int // 因范围限制被跳过的行数
}

// New 创建数据集，capacity <= 0 时使用默认容量
func New(numVars, capacity int) (*Dataset, error) {
	if numVars < 1 || numVars > types.MaxVars {
		return nil, fmt.Errorf("dataset: variable count %d out of range [1,%d]", numVars, types.MaxVars)
	}
	if capacity <= 0 {
		capacity = types.DefaultCapacity
	}
	return &Dataset{
		numVars:  numVars,
		capacity: capacity,
		limits:   NoLimits(),
	}, nil
}

// NumVars 自变量个数
func (d *Dataset) NumVars() int { return d.numVars }

// Len 已准入行数
func (d *Dataset) Len() int { return len(d.rows) }

// Cap 行容量
func (d *Dataset) Cap() int { return d.capacity }

// Skipped 因范围限制被跳过的行数
func (d *Dataset) Skipped() int { return d.skipped }

// Limits 当前准入范围
func (d *Dataset) Limits() Limits { return d.limits }

// Row 返回第 i 行
func (d *Dataset) Row(i int) Row { return d.rows[i] }

// Rows 返回所有行的副本
func (d *Dataset) Rows() []Row { return slices.Clone(d.rows) }

// All 按顺序遍历所有行
func (d *Dataset) All(yield func(int, Row) bool) {
	for i, r := range d.rows {
		if !yield(i, r) {
			return
		}
	}
}

// SetUpperLimits 设置之后准入行的上限，只使用前 numVars 个值
func (d *Dataset) SetUpperLimits(v ...float64) error {
	if len(v) < d.numVars {
		return fmt.Errorf("dataset: %d upper limit(s) given, %d needed", len(v), d.numVars)
	}
	copy(d.limits.Upper[:d.numVars], v)
	return nil
}

// SetLowerLimits 设置之后准入行的下限，只使用前 numVars 个值
func (d *Dataset) SetLowerLimits(v ...float64) error {
	if len(v) < d.numVars {
		return fmt.Errorf("dataset: %d lower limit(s) given, %d needed", len(v), d.numVars)
	}
	copy(d.limits.Lower[:d.numVars], v)
	return nil
}

// Add 准入一行
// 超出范围的行被计数跳过（admitted=false，无错误）；
// 非有限值或不确定度不为正返回 ErrInvalidRow；超出容量返回 ErrCapacity
func (d *Dataset) Add(r Row) (admitted bool, err error) {
	for i := 0; i < d.numVars; i++ {
		if !isFinite(r.X[i]) {
			return false, fmt.Errorf("%w: variable %d is %v", ErrInvalidRow, i+1, r.X[i])
		}
	}
	for i := d.numVars; i < types.MaxVars; i++ {
		r.X[i] = 0
	}
	if !isFinite(r.Value) {
		return false, fmt.Errorf("%w: value is %v", ErrInvalidRow, r.Value)
	}
	if !isFinite(r.Uncertainty) || r.Uncertainty <= 0 {
		return false, fmt.Errorf("%w: uncertainty must be positive, got %v", ErrInvalidRow, r.Uncertainty)
	}
	if !d.limits.Contains(r, d.numVars) {
		d.skipped++
		return false, nil
	}
	if len(d.rows) >= d.capacity {
		return false, fmt.Errorf("%w: %d rows", ErrCapacity, d.capacity)
	}
	d.rows = append(d.rows, r)
	return true, nil
}

// Filter 返回只包含 keep 为真的行的独立副本（保留范围与容量）
func (d *Dataset) Filter(keep func(Row) bool) *Dataset {
	nd := &Dataset{
		numVars:  d.numVars,
		capacity: d.capacity,
		limits:   d.limits,
		rows:     make([]Row, 0, len(d.rows)),
	}
	for _, r := range d.rows {
		if keep(r) {
			nd.rows = append(nd.rows, r)
		}
	}
	return nd
}

// Clone 深拷贝
func (d *Dataset) Clone() *Dataset {
	nd := *d
	nd.rows = slices.Clone(d.rows)
	return &nd
}

// Column 返回第 v 个自变量的列
func (d *Dataset) Column(v int) []float64 {
	col := make([]float64, len(d.rows))
	for i, r := range d.rows {
		col[i] = r.X[v]
	}
	return col
}

// Values 返回响应值列
func (d *Dataset) Values() []float64 {
	col := make([]float64, len(d.rows))
	for i, r := range d.rows {
		col[i] = r.Value
	}
	return col
}

// Nearest 返回第 v 个自变量中与 target 最近的网格值（距离相同取先出现者）
func (d *Dataset) Nearest(v int, target float64) (float64, bool) {
	best, found := 0.0, false
	minDist := math.Inf(1)
	for _, r := range d.rows {
		if dist := math.Abs(r.X[v] - target); dist < minDist {
			minDist = dist
			best, found = r.X[v], true
		}
	}
	return best, found
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
