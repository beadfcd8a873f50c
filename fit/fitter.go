// Package fit 实现网格数据的多项式拟合、临界点与置信区间计算
package fit

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"gridfit/dataset"
	"gridfit/maths"
	"gridfit/types"
)

// Fitter 拟合器
// 每次 Fit 调用都是数据集与配置的纯函数，不保存调用间状态
type Fitter struct {
	Config Config
	Log    logrus.FieldLogger
}

// New 校验配置并创建拟合器，log 为 nil 时使用 logrus 标准日志
func New(cfg Config, log logrus.FieldLogger) (*Fitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Fitter{Config: cfg, Log: log}, nil
}

// Fit 拟合数据集；开启重拟合筛选时先求解一次，筛选后再完整拟合一次
func (f *Fitter) Fit(ds *dataset.Dataset) (*Result, error) {
	if ds.NumVars() != f.Config.NumVars {
		return nil, fmt.Errorf("%w: dataset has %d variable(s), configuration %d", ErrInvalidConfig, ds.NumVars(), f.Config.NumVars)
	}
	if f.Config.Refit {
		return f.fitWithFilter(ds)
	}
	return f.fit(ds)
}

func (f *Fitter) logger() logrus.FieldLogger {
	return f.Log.WithField("model", f.Config.Model.String())
}

// checkNDF 自由度检查：为负返回错误，为零返回警告
func (f *Fitter) checkNDF(ds *dataset.Dataset) (ndf int, warning string, err error) {
	n := f.Config.NumParams()
	ndf = ds.Len() - n
	switch {
	case ndf < 0:
		return ndf, "", fmt.Errorf("%w: %d data point(s) provided, %d needed for the %s model",
			ErrInsufficientData, ds.Len(), n, f.Config.Model)
	case ndf == 0:
		warning = fmt.Sprintf("number of data points is equal to the number of fit parameters (%d), "+
			"fit is constrained to pass through data points (NDF = 0)", n)
	}
	return ndf, warning, nil
}

// coefficients 自由度检查后求解系数
func (f *Fitter) coefficients(ds *dataset.Dataset) ([]float64, maths.Matrix, int, string, error) {
	ndf, warning, err := f.checkNDF(ds)
	if err != nil {
		return nil, nil, ndf, "", err
	}
	a, inv, err := drivers[f.Config.Model].solve(f, ds)
	if err != nil {
		return nil, nil, ndf, "", err
	}
	return a, inv, ndf, warning, nil
}

// fit 不带筛选的完整拟合
func (f *Fitter) fit(ds *dataset.Dataset) (*Result, error) {
	cfg := f.Config
	drv := drivers[cfg.Model]
	a, inv, ndf, warning, err := f.coefficients(ds)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Model:        cfg.Model,
		NumVars:      cfg.NumVars,
		DataType:     cfg.DataType,
		Delta:        cfg.Delta,
		SigmaDesc:    cfg.SigmaDesc,
		Coefficients: a,
		NDF:          ndf,
	}
	if cfg.Model == types.ModelLinear {
		res.DemingDelta = cfg.DemingDelta
	}
	if warning != "" {
		f.logger().WithField("ndf", ndf).Warn(warning)
		res.warn(warning)
	}

	if drv.chiSq != nil {
		res.ChiSq = drv.chiSq(f, a, ds)
	} else {
		res.ChiSq = residualChiSq(basisFor(cfg.Model, cfg.NumVars), a, ds)
	}
	if inv != nil {
		res.Covariance, res.Errors = covariance(inv, res.ChiSq, ndf)
	}

	if err := drv.analyze(f, res); err != nil {
		return nil, err
	}
	res.Fixed = nearestGrid(ds, res)
	res.Forms = forms(res, cfg.PlotMode)
	return res, nil
}

// covariance 协方差 = 逆矩阵·χ²/NDF，误差为对角元平方根；NDF 为 0 时全为 NaN
func covariance(inv maths.Matrix, chisq float64, ndf int) (*mat.SymDense, []float64) {
	n := inv.Rows()
	scale := perNDF(chisq, ndf)
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			cov.SetSym(i, j, 0.5*(inv.Get(i, j)+inv.Get(j, i))*scale)
		}
	}
	errs := make([]float64, n)
	for i := range errs {
		errs[i] = math.Sqrt(cov.At(i, i))
	}
	return cov, errs
}
