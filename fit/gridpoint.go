package fit

import (
	"gridfit/dataset"
)

// GridPoint 拟合函数在数据网格点上的最低（highest 为假）或最高值
// 返回对应行、函数值；数据集为空时 ok 为假。值相同时取先出现的行
func GridPoint(res *Result, ds *dataset.Dataset, highest bool) (row dataset.Row, value float64, ok bool) {
	for _, r := range ds.All {
		v := res.Eval(r.X[:res.NumVars]...)
		if !ok || (highest && v > value) || (!highest && v < value) {
			row, value, ok = r, v, true
		}
	}
	return row, value, ok
}
