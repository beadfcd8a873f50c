package fit

import (
	"math"

	"github.com/sirupsen/logrus"

	"gridfit/dataset"
)

// Filter 在全部数据上求解系数，返回 |m - f(x)| <= RefitDistance 的数据点（权重不变）
// 这一阶段的系数只用于筛选，不出现在结果中
func (f *Fitter) Filter(ds *dataset.Dataset) (*dataset.Dataset, error) {
	a, _, _, _, err := f.coefficients(ds)
	if err != nil {
		return nil, err
	}
	basis := basisFor(f.Config.Model, f.Config.NumVars)
	dist := f.Config.RefitDistance
	return ds.Filter(func(r dataset.Row) bool {
		return math.Abs(r.Value-evalBasis(basis, a, r.X[:])) <= dist
	}), nil
}

// fitWithFilter 两阶段重拟合：筛选后在保留的数据点上完整拟合一次
func (f *Fitter) fitWithFilter(ds *dataset.Dataset) (*Result, error) {
	kept, err := f.Filter(ds)
	if err != nil {
		return nil, err
	}
	f.logger().WithFields(logrus.Fields{
		"kept":  kept.Len(),
		"total": ds.Len(),
	}).Infof("refit filter: %d of %d data point(s) retained", kept.Len(), ds.Len())

	res, err := f.fit(kept)
	if err != nil {
		return nil, err
	}
	res.Refit = &Refit{Kept: kept.Len(), Total: ds.Len()}
	return res, nil
}
