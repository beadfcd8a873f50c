package fit

import (
	"slices"

	"gonum.org/v1/gonum/mat"

	"gridfit/types"
)

// Kind 临界点类型
type Kind int

// 临界点类型常量定义
const (
	KindNone      Kind = iota // 未分类
	KindMinimum               // 局部最小值
	KindMaximum               // 局部最大值
	KindSaddle                // 鞍点
	KindIntercept             // 截距（直线拟合）
)

var kindString = map[Kind]string{
	KindNone:      "none",
	KindMinimum:   "minimum",
	KindMaximum:   "maximum",
	KindSaddle:    "saddle",
	KindIntercept: "intercept",
}

// String 返回临界点类型名称
func (k Kind) String() string {
	if s, ok := kindString[k]; ok {
		return s
	}
	return "none"
}

// MarshalText 文本编码
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ZeroMode 零点约束方式
type ZeroMode int

// 零点约束常量定义（与 x、y 位标志对应）
const (
	ZeroNone ZeroMode = iota // 不约束
	ZeroX                    // x 固定为 0
	ZeroY                    // y 固定为 0
	ZeroXY                   // x、y 都固定为 0
)

var zeroModeString = map[ZeroMode]string{
	ZeroNone: "none",
	ZeroX:    "x",
	ZeroY:    "y",
	ZeroXY:   "x and y",
}

// String 返回零点约束描述
func (z ZeroMode) String() string { return zeroModeString[z] }

// MarshalText 文本编码
func (z ZeroMode) MarshalText() ([]byte, error) { return []byte(z.String()), nil }

// CriticalPoint 临界点及其置信区间
// 直线拟合时 Coords 为 (x 截距, y 截距)
type CriticalPoint struct {
	Coords      []float64 `json:"coords"`
	Value       float64   `json:"value"`
	Kind        Kind      `json:"kind"`
	Lower       []float64 `json:"lower,omitempty"`
	Upper       []float64 `json:"upper,omitempty"`
	BoundsFound bool      `json:"boundsFound"`
}

// Clone 深拷贝
func (p CriticalPoint) Clone() CriticalPoint {
	p.Coords = slices.Clone(p.Coords)
	p.Lower = slices.Clone(p.Lower)
	p.Upper = slices.Clone(p.Upper)
	return p
}

// ZeroForced 零点约束子问题结果
type ZeroForced struct {
	Mode  ZeroMode      `json:"mode"`
	Point CriticalPoint `json:"point"`
}

// Refit 重拟合筛选统计
type Refit struct {
	Kept  int `json:"kept"`
	Total int `json:"total"`
}

// Result 单次拟合结果
type Result struct {
	Model        types.ModelType `json:"model"`
	NumVars      int             `json:"numVars"`
	DataType     types.DataType  `json:"dataType"`
	Delta        float64         `json:"delta"`
	SigmaDesc    string          `json:"sigmaDesc"`
	DemingDelta  float64         `json:"demingDelta,omitempty"`
	Coefficients []float64       `json:"coefficients"`
	Covariance   *mat.SymDense   `json:"-"`
	Errors       []float64       `json:"errors,omitempty"`
	ChiSq        float64         `json:"chisq"`
	NDF          int             `json:"ndf"`
	Points       []CriticalPoint `json:"points"`
	Monotonic    bool            `json:"monotonic,omitempty"`
	ZeroForced   *ZeroForced     `json:"zeroForced,omitempty"`
	Fixed        []float64       `json:"fixed,omitempty"` // 与临界点最近的网格值（绘图固定坐标）
	Forms        []string        `json:"forms,omitempty"`
	Refit        *Refit          `json:"refit,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// Clone 深拷贝，副本与原结果互不影响
func (r *Result) Clone() *Result {
	c := *r
	c.Coefficients = slices.Clone(r.Coefficients)
	c.Errors = slices.Clone(r.Errors)
	c.Fixed = slices.Clone(r.Fixed)
	c.Forms = slices.Clone(r.Forms)
	c.Warnings = slices.Clone(r.Warnings)
	if r.Covariance != nil {
		c.Covariance = mat.NewSymDense(r.Covariance.SymmetricDim(), nil)
		c.Covariance.CopySym(r.Covariance)
	}
	c.Points = make([]CriticalPoint, len(r.Points))
	for i, p := range r.Points {
		c.Points[i] = p.Clone()
	}
	if r.ZeroForced != nil {
		zf := *r.ZeroForced
		zf.Point = zf.Point.Clone()
		c.ZeroForced = &zf
	}
	if r.Refit != nil {
		rf := *r.Refit
		c.Refit = &rf
	}
	return &c
}

// Eval 在点 x 处计算拟合函数的值
func (r *Result) Eval(x ...float64) float64 {
	return evalBasis(basisFor(r.Model, r.NumVars), r.Coefficients, x)
}

// ChiSqPerNDF χ²/NDF，NDF 为 0 时返回 NaN
func (r *Result) ChiSqPerNDF() float64 {
	return perNDF(r.ChiSq, r.NDF)
}

// Minimum 返回第一个最小值临界点
func (r *Result) Minimum() (CriticalPoint, bool) {
	return r.pointOfKind(KindMinimum)
}

// Maximum 返回第一个最大值临界点
func (r *Result) Maximum() (CriticalPoint, bool) {
	return r.pointOfKind(KindMaximum)
}

func (r *Result) pointOfKind(k Kind) (CriticalPoint, bool) {
	for _, p := range r.Points {
		if p.Kind == k {
			return p, true
		}
	}
	return CriticalPoint{}, false
}

func (r *Result) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
