package types

import "fmt"

// ModelType 拟合模型类型
type ModelType int

// 拟合模型类型常量定义
const (
	ModelUnknown    ModelType = iota // 未知类型
	ModelLinear                      // 直线（Deming 回归）
	ModelParaboloid                  // 抛物面（1-3 个变量）
	ModelCubic                       // 一元三次多项式
)

// modelTypeString 模型映射
var modelTypeString = map[ModelType]struct {
	Name      string
	NumParams [MaxVars + 1]int // 按变量个数索引的参数个数（0 表示不支持）
}{
	ModelUnknown:    {Name: "unknown"},
	ModelLinear:     {Name: "linear", NumParams: [MaxVars + 1]int{0, 2, 0, 0}},
	ModelParaboloid: {Name: "paraboloid", NumParams: [MaxVars + 1]int{0, 3, 6, 10}},
	ModelCubic:      {Name: "cubic", NumParams: [MaxVars + 1]int{0, 4, 0, 0}},
}

// String 返回模型类型的字符串表示
func (t ModelType) String() string {
	if mt, ok := modelTypeString[t]; ok {
		return mt.Name
	}
	return "unknown"
}

// NumParams 返回给定变量个数下的拟合参数个数，不支持时返回 0
func (t ModelType) NumParams(numVars int) int {
	if numVars < 1 || numVars > MaxVars {
		return 0
	}
	if mt, ok := modelTypeString[t]; ok {
		return mt.NumParams[numVars]
	}
	return 0
}

// MarshalText 文本编码（JSON 输出使用名称）
func (t ModelType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText 文本解码
func (t *ModelType) UnmarshalText(b []byte) error {
	v := GetModelType(string(b))
	if v == ModelUnknown {
		return fmt.Errorf("unknown model type: %q", b)
	}
	*t = v
	return nil
}

var mapModelName = map[string]ModelType{
	"linear":     ModelLinear,
	"lin":        ModelLinear,
	"deming":     ModelLinear,
	"paraboloid": ModelParaboloid,
	"par":        ModelParaboloid,
	"poly2":      ModelParaboloid,
	"cubic":      ModelCubic,
	"poly3":      ModelCubic,
}

// GetModelType 通过名称获取模型类型
func GetModelType(name string) ModelType {
	return mapModelName[name]
}

// DataType 数据语义类型
type DataType int

// 数据语义常量定义
const (
	DataUnknown DataType = iota // 未知类型
	DataChisq                   // 卡方类数据（计算置信区间）
	DataGeneric                 // 一般数据
)

var dataTypeString = map[DataType]string{
	DataUnknown: "unknown",
	DataChisq:   "chisq",
	DataGeneric: "generic",
}

// String 返回数据类型的字符串表示
func (t DataType) String() string {
	if s, ok := dataTypeString[t]; ok {
		return s
	}
	return "unknown"
}

// MarshalText 文本编码
func (t DataType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText 文本解码
func (t *DataType) UnmarshalText(b []byte) error {
	v := GetDataType(string(b))
	if v == DataUnknown {
		return fmt.Errorf("unknown data type: %q", b)
	}
	*t = v
	return nil
}

var mapDataName = map[string]DataType{
	"chisq":   DataChisq,
	"generic": DataGeneric,
	"other":   DataGeneric,
}

// GetDataType 通过名称获取数据类型
func GetDataType(name string) DataType {
	return mapDataName[name]
}

// PlotMode 绘图方式
type PlotMode int

// 绘图方式常量定义
const (
	PlotNone PlotMode = iota // 不绘图
	Plot1D                   // 按变量绘制一维切片
	Plot2D                   // 二维曲面
)

var plotModeString = map[PlotMode]string{
	PlotNone: "none",
	Plot1D:   "1d",
	Plot2D:   "2d",
}

// String 返回绘图方式的字符串表示
func (m PlotMode) String() string {
	if s, ok := plotModeString[m]; ok {
		return s
	}
	return "none"
}

// MarshalText 文本编码
func (m PlotMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

var mapPlotName = map[string]PlotMode{
	"":     PlotNone,
	"none": PlotNone,
	"1d":   Plot1D,
	"2d":   Plot2D,
}

// GetPlotMode 通过名称获取绘图方式，未知名称返回 false
func GetPlotMode(name string) (PlotMode, bool) {
	m, ok := mapPlotName[name]
	return m, ok
}
