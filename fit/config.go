package fit

import (
	"fmt"
	"math"

	"gridfit/types"
)

// Config 拟合配置
type Config struct {
	NumVars       int             // 自变量个数（1-3）
	Model         types.ModelType // 模型
	DataType      types.DataType  // 数据语义，chisq 时计算置信区间
	Delta         float64         // 置信区间对应的 Δχ²
	SigmaDesc     string          // 置信水平描述，例如 "1-sigma"
	ForceZeroX    bool            // 假设 x 方向最小值在 0
	ForceZeroY    bool            // 假设 y 方向最小值在 0
	Refit         bool            // 单次残差筛选重拟合
	RefitDistance float64         // 筛选保留的最大残差绝对值
	DemingDelta   float64         // Deming 回归 y/x 误差方差比
	Weighted      bool            // 按 1/σ² 加权
	PlotMode      types.PlotMode  // 绘图表达式形式
}

// DefaultConfig 返回一元抛物线、1-sigma 的默认配置
func DefaultConfig() Config {
	return Config{
		NumVars:     1,
		Model:       types.ModelParaboloid,
		DataType:    types.DataChisq,
		Delta:       1,
		SigmaDesc:   "1-sigma",
		DemingDelta: types.DefaultDemingDelta,
		Weighted:    true,
		PlotMode:    types.PlotNone,
	}
}

// NumParams 拟合参数个数
func (c Config) NumParams() int {
	return c.Model.NumParams(c.NumVars)
}

// Validate 检查配置是否可用
func (c Config) Validate() error {
	if c.NumVars < 1 || c.NumVars > types.MaxVars {
		return fmt.Errorf("%w: variable count %d out of range [1,%d]", ErrInvalidConfig, c.NumVars, types.MaxVars)
	}
	if c.Model == types.ModelUnknown {
		return fmt.Errorf("%w: unknown model", ErrInvalidConfig)
	}
	if c.NumParams() == 0 {
		return fmt.Errorf("%w: %s model does not support %d variable(s)", ErrInvalidConfig, c.Model, c.NumVars)
	}
	if c.DataType == types.DataUnknown {
		return fmt.Errorf("%w: unknown data type", ErrInvalidConfig)
	}
	if c.DataType == types.DataChisq && !(c.Delta > 0) {
		return fmt.Errorf("%w: confidence delta must be positive, got %v", ErrInvalidConfig, c.Delta)
	}
	if c.Refit && (!(c.RefitDistance > 0) || math.IsInf(c.RefitDistance, 0)) {
		return fmt.Errorf("%w: refit distance must be positive and finite, got %v", ErrInvalidConfig, c.RefitDistance)
	}
	if c.Model == types.ModelLinear && !(c.DemingDelta > 0) {
		return fmt.Errorf("%w: Deming delta must be positive, got %v", ErrInvalidConfig, c.DemingDelta)
	}
	if c.PlotMode == types.Plot2D && (c.Model != types.ModelParaboloid || c.NumVars < 2) {
		return fmt.Errorf("%w: plot mode 2d is not available for %d-variable %s data", ErrInvalidConfig, c.NumVars, c.Model)
	}
	return nil
}
