// Package config 读取 gridfit 的运行配置
//
// 优先级（从高到低）：命令行参数 > 环境变量（GRIDFIT_ 前缀）> 配置文件 > 默认值
package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/stat/distuv"

	"gridfit/fit"
	"gridfit/types"
)

// 配置文件名
const (
	FileName    = "gridfit.yaml"
	FileNameAlt = "gridfit.yml"
	EnvPrefix   = "GRIDFIT_"
)

// Settings 全部运行配置
type Settings struct {
	Vars          int     `koanf:"vars"`
	Model         string  `koanf:"model"`
	DataType      string  `koanf:"data_type"`
	Delta         float64 `koanf:"delta"`
	Sigma         float64 `koanf:"sigma"`      // 大于 0 时由置信水平计算 Delta
	Confidence    string  `koanf:"confidence"` // 置信水平描述
	ForceZeroX    bool    `koanf:"force_zero_x"`
	ForceZeroY    bool    `koanf:"force_zero_y"`
	RefitDistance float64 `koanf:"refit_distance"` // 大于 0 时开启重拟合筛选
	DemingDelta   float64 `koanf:"deming_delta"`
	Unweighted    bool    `koanf:"unweighted"`
	PlotMode      string  `koanf:"plot_mode"`
	PlotDir       string  `koanf:"plot_dir"`
	Verbosity     int     `koanf:"verbosity"`
	FindMin       bool    `koanf:"find_min"`
	FindMax       bool    `koanf:"find_max"`
	Capacity      int     `koanf:"capacity"`
	Output        string  `koanf:"output"`
	LogLevel      string  `koanf:"log_level"`

	// 实际读取的配置文件，未使用时为空
	FileUsed string `koanf:"-"`
}

// Defaults 默认值
func Defaults() map[string]any {
	return map[string]any{
		"vars":           1,
		"model":          types.ModelParaboloid.String(),
		"data_type":      types.DataChisq.String(),
		"delta":          1.0,
		"sigma":          0.0,
		"confidence":     "1-sigma",
		"force_zero_x":   false,
		"force_zero_y":   false,
		"refit_distance": 0.0,
		"deming_delta":   types.DefaultDemingDelta,
		"unweighted":     false,
		"plot_mode":      types.PlotNone.String(),
		"plot_dir":       "",
		"verbosity":      0,
		"find_min":       false,
		"find_max":       false,
		"capacity":       types.DefaultCapacity,
		"output":         "",
		"log_level":      "info",
	}
}

// RegisterFlags 注册与配置键对应的命令行参数（短横线形式）
func RegisterFlags(fs *pflag.FlagSet) {
	fs.IntP("vars", "n", 1, "number of independent variables (1-3)")
	fs.StringP("model", "m", types.ModelParaboloid.String(), "fit model: linear, paraboloid, cubic")
	fs.String("data-type", types.DataChisq.String(), "data type: chisq or generic")
	fs.Float64("delta", 1, "delta chi-square defining the confidence interval")
	fs.Float64("sigma", 0, "confidence level in sigma, overrides --delta when positive")
	fs.String("confidence", "1-sigma", "confidence interval description")
	fs.Bool("force-zero-x", false, "assume the minimum is at x = 0")
	fs.Bool("force-zero-y", false, "assume the minimum is at y = 0")
	fs.Float64("refit-distance", 0, "refit after discarding points farther than this from the fit")
	fs.Float64("deming-delta", types.DefaultDemingDelta, "Deming regression error variance ratio")
	fs.Bool("unweighted", false, "ignore data uncertainties")
	fs.String("plot-mode", types.PlotNone.String(), "plot mode: 1d or 2d")
	fs.String("plot-dir", "", "directory receiving plot output")
	fs.IntP("verbosity", "V", 0, "report verbosity: 0 full, 1 critical points, 2 coefficients")
	fs.Bool("find-min", false, "report the grid point with the lowest fitted value")
	fs.Bool("find-max", false, "report the grid point with the highest fitted value")
	fs.Int("capacity", types.DefaultCapacity, "maximum number of data points")
	fs.StringP("output", "o", "", "write the fit result as JSON to this file")
	fs.String("log-level", "info", "log level")
}

// findFile 显式路径优先，其次当前目录下的 gridfit.yaml、gridfit.yml
func findFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{FileName, FileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load 按优先级合并默认值、配置文件、环境变量与命令行参数
func Load(cfgFile string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	used := findFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", used, err)
		}
	}

	// GRIDFIT_DATA_TYPE -> data_type
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	s.FileUsed = used
	return &s, nil
}

// DeltaForSigma 给定置信水平（以 sigma 计）和自由度对应的 Δχ²
// 例如 1 sigma、1 个自由度为 1.00，2 个自由度为 2.30
func DeltaForSigma(sigma float64, dof int) float64 {
	p := math.Erf(sigma / math.Sqrt2)
	return distuv.ChiSquared{K: float64(dof)}.Quantile(p)
}

// FitConfig 转换为拟合配置
func (s *Settings) FitConfig() (fit.Config, error) {
	model := types.GetModelType(strings.ToLower(s.Model))
	if model == types.ModelUnknown {
		return fit.Config{}, fmt.Errorf("%w: unknown model %q", fit.ErrInvalidConfig, s.Model)
	}
	dataType := types.GetDataType(strings.ToLower(s.DataType))
	if dataType == types.DataUnknown {
		return fit.Config{}, fmt.Errorf("%w: unknown data type %q", fit.ErrInvalidConfig, s.DataType)
	}
	plotMode, ok := types.GetPlotMode(strings.ToLower(s.PlotMode))
	if !ok {
		return fit.Config{}, fmt.Errorf("%w: unknown plot mode %q", fit.ErrInvalidConfig, s.PlotMode)
	}

	cfg := fit.Config{
		NumVars:       s.Vars,
		Model:         model,
		DataType:      dataType,
		Delta:         s.Delta,
		SigmaDesc:     s.Confidence,
		ForceZeroX:    s.ForceZeroX,
		ForceZeroY:    s.ForceZeroY,
		Refit:         s.RefitDistance > 0,
		RefitDistance: s.RefitDistance,
		DemingDelta:   s.DemingDelta,
		Weighted:      !s.Unweighted,
		PlotMode:      plotMode,
	}
	if s.Sigma > 0 {
		dof := 1
		if model == types.ModelParaboloid {
			dof = s.Vars
		}
		cfg.Delta = DeltaForSigma(s.Sigma, dof)
		cfg.SigmaDesc = fmt.Sprintf("%g-sigma", s.Sigma)
	}
	if cfg.SigmaDesc == "" {
		cfg.SigmaDesc = fmt.Sprintf("delta chisq = %g", cfg.Delta)
	}
	return cfg, cfg.Validate()
}
