// Package report 以文本形式输出拟合结果
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/floats/scalar"

	"gridfit/dataset"
	"gridfit/fit"
	"gridfit/types"
)

// 输出详细程度
const (
	VerbosityFull         = 0 // 完整报告
	VerbosityCritical     = 1 // 只输出临界点坐标
	VerbosityCoefficients = 2 // 只输出系数
)

// Options 报告选项
type Options struct {
	Verbosity int
	FindMin   bool // 输出拟合值最低的网格点
	FindMax   bool // 输出拟合值最高的网格点
}

// Styles 报告使用的文本样式
type Styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles 按输出端能力创建样式，非终端输出时不带控制字符
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:   r.NewStyle().Bold(true),
		Section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Muted:   r.NewStyle().Faint(true),
	}
}

// Reporter 报告输出
type Reporter struct {
	w      io.Writer
	opts   Options
	styles Styles
}

// New 创建报告输出
func New(w io.Writer, opts Options) *Reporter {
	return &Reporter{w: w, opts: opts, styles: NewStyles(lipgloss.NewRenderer(w))}
}

// Print 输出一次拟合的报告，ds 为参与拟合的数据（用于网格点搜索）
func (r *Reporter) Print(res *fit.Result, ds *dataset.Dataset) error {
	var sb strings.Builder
	switch r.opts.Verbosity {
	case VerbosityCritical:
		sb.WriteString(joinE(criticalCoords(res)) + "\n")
	case VerbosityCoefficients:
		sb.WriteString(joinE(res.Coefficients) + "\n")
	default:
		r.full(&sb, res, ds)
	}
	_, err := io.WriteString(r.w, sb.String())
	return err
}

func (r *Reporter) full(sb *strings.Builder, res *fit.Result, ds *dataset.Dataset) {
	sb.WriteString("\n" + r.styles.Title.Render("FIT RESULTS") + "\n-----------\n")
	if res.Model != types.ModelLinear {
		sb.WriteString("Fit parameter uncertainties reported at 1-sigma.\n")
	}
	fmt.Fprintf(sb, "Fit function: %s\n\n", FunctionForm(res))
	fmt.Fprintf(sb, "Best chisq (fit): %0.3f\nBest chisq/NDF (fit): %0.3f\n\n", res.ChiSq, res.ChiSqPerNDF())
	sb.WriteString(coefficientTable(res) + "\n")
	if res.Refit != nil {
		fmt.Fprintf(sb, "Refit filter: %d of %d data point(s) retained.\n", res.Refit.Kept, res.Refit.Total)
	}
	sb.WriteString("\n")

	switch res.Model {
	case types.ModelLinear:
		r.line(sb, res)
	case types.ModelCubic:
		r.cubic(sb, res)
	default:
		r.paraboloid(sb, res)
	}

	if (r.opts.FindMin || r.opts.FindMax) && ds != nil {
		sb.WriteString("\n")
		if r.opts.FindMin {
			gridPoint(sb, res, ds, false)
		}
		if r.opts.FindMax {
			gridPoint(sb, res, ds, true)
		}
	}
}

// FunctionForm 拟合函数的文字描述
func FunctionForm(res *fit.Result) string {
	switch res.Model {
	case types.ModelLinear:
		return fmt.Sprintf("f(x) = a1*x + a2 (Deming regression, delta = %0.3f)", res.DemingDelta)
	case types.ModelCubic:
		return "f(x) = a1*x^3 + a2*x^2 + a3*x + a4"
	}
	switch res.NumVars {
	case 1:
		return "f(x) = a1*x^2 + a2*x + a3"
	case 2:
		return "f(x,y) = a1*x^2 + a2*y^2 + a3*x*y\n                     + a4*x + a5*y + a6"
	default:
		return "f(x,y,z) = a1*x^2 + a2*y^2 + a3*z^2 + a4*x*y + a5*x*z + a6*y*z\n" +
			"                       + a7*x + a8*y + a9*z + a10"
	}
}

// coefficientTable 系数表，Deming 回归没有误差列
func coefficientTable(res *fit.Result) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	withErr := len(res.Errors) == len(res.Coefficients)
	if withErr {
		t.AppendHeader(table.Row{"Coefficient", "Value", "Uncertainty"})
	} else {
		t.AppendHeader(table.Row{"Coefficient", "Value"})
	}
	for i, a := range res.Coefficients {
		row := table.Row{fmt.Sprintf("a%d", i+1), fmt.Sprintf("%E", a)}
		if withErr {
			row = append(row, fmt.Sprintf("%E", res.Errors[i]))
		}
		t.AppendRow(row)
	}
	return t.Render()
}

func (r *Reporter) line(sb *strings.Builder, res *fit.Result) {
	if len(res.Points) == 0 {
		return
	}
	c := res.Points[0].Coords
	fmt.Fprintf(sb, "x-intercept = %E\ny-intercept = %E\n", c[0], c[1])
}

func (r *Reporter) cubic(sb *strings.Builder, res *fit.Result) {
	fmt.Fprintf(sb, "y-intercept = %E\n", res.Eval(0))
	if zf := res.ZeroForced; zf != nil {
		if zf.Point.BoundsFound {
			fmt.Fprintf(sb, "Upper bound (with %s confidence interval) assuming minimum at zero: x = %E\n",
				res.SigmaDesc, zf.Point.Upper[0])
		} else {
			fmt.Fprintf(sb, "Upper bound (with %s confidence interval) assuming minimum at zero could not be found.\n",
				res.SigmaDesc)
		}
	}
	sb.WriteString("\n")

	if res.Monotonic || len(res.Points) == 0 {
		sb.WriteString(r.styles.Muted.Render("Fit function is monotonic (no critical points).") + "\n")
		return
	}
	xs := make([]float64, len(res.Points))
	ys := make([]float64, len(res.Points))
	for i, p := range res.Points {
		xs[i], ys[i] = p.Coords[0], p.Value
	}
	fmt.Fprintf(sb, "Critical points at x = [ %s ]\n", joinE(xs))
	fmt.Fprintf(sb, "At critical points, y = [ %s ]\n", joinE(ys))
	if res.DataType != types.DataChisq {
		return
	}
	sb.WriteString("\n")
	for _, p := range res.Points {
		label := kindLabel(p.Kind)
		if p.BoundsFound {
			fmt.Fprintf(sb, "%s (with %s confidence interval): %s\n", label, res.SigmaDesc,
				Bound("x", p.Coords[0], p.Lower[0], p.Upper[0]))
		} else {
			fmt.Fprintf(sb, "%s (with unbound %s confidence interval): x = %E\n", label, res.SigmaDesc, p.Coords[0])
		}
	}
}

func (r *Reporter) paraboloid(sb *strings.Builder, res *fit.Result) {
	for _, p := range res.Points {
		vertex(sb, res, p)
	}
	if zf := res.ZeroForced; zf != nil {
		axes := zf.Mode.String()
		if zf.Mode == fit.ZeroXY {
			axes = "both x and y"
		}
		sb.WriteString("\n" + r.styles.Section.Render(fmt.Sprintf("Assuming minimum at zero for %s,", axes)) + "\n")
		vertex(sb, res, zf.Point)
	}
}

var coordNames = [types.MaxVars]string{"x0", "y0", "z0"}

// vertex 输出抛物面顶点及其区间
func vertex(sb *strings.Builder, res *fit.Result, p fit.CriticalPoint) {
	sb.WriteString(kindLabel(p.Kind))
	if p.BoundsFound {
		fmt.Fprintf(sb, " (with %s confidence interval) at:\n", res.SigmaDesc)
	} else {
		sb.WriteString(" at:\n")
	}
	for i, x := range p.Coords {
		if p.BoundsFound {
			sb.WriteString(Bound(coordNames[i], x, p.Lower[i], p.Upper[i]) + "\n")
		} else {
			fmt.Fprintf(sb, "%s = %E\n", coordNames[i], x)
		}
	}
	fmt.Fprintf(sb, "\nf(%s) = %E\n", strings.Join(coordNames[:len(p.Coords)], ","), p.Value)
}

// 上下半宽相对差小于该值时按对称区间输出
const symmetricTol = 1e-7

// Bound 单个坐标的区间；上下距离近似相等时写作 +/-
func Bound(name string, x, lower, upper float64) string {
	up, down := upper-x, x-lower
	if scalar.EqualWithinRel(up, down, symmetricTol) {
		return fmt.Sprintf("%s = %E +/- %E", name, x, up)
	}
	return fmt.Sprintf("%s = %E + %E - %E", name, x, up, down)
}

func kindLabel(k fit.Kind) string {
	switch k {
	case fit.KindMinimum:
		return "Local minimum"
	case fit.KindMaximum:
		return "Local maximum"
	case fit.KindSaddle:
		return "Saddle point"
	default:
		return "Critical point"
	}
}

func gridPoint(sb *strings.Builder, res *fit.Result, ds *dataset.Dataset, highest bool) {
	row, v, ok := fit.GridPoint(res, ds, highest)
	if !ok {
		return
	}
	which := "lowest"
	if highest {
		which = "highest"
	}
	coords := make([]string, res.NumVars)
	for i := range coords {
		coords[i] = fmt.Sprintf("%0.3E", row.X[i])
	}
	fmt.Fprintf(sb, "Grid point corresponding to the %s value (%E) of the fitted function is at [ %s ].\n",
		which, v, strings.Join(coords, " "))
}

// criticalCoords 简要输出用的临界点坐标，单调三次函数输出 NaN
func criticalCoords(res *fit.Result) []float64 {
	if res.Model == types.ModelCubic {
		if len(res.Points) == 0 {
			return []float64{math.NaN(), math.NaN()}
		}
		xs := make([]float64, len(res.Points))
		for i, p := range res.Points {
			xs[i] = p.Coords[0]
		}
		return xs
	}
	if len(res.Points) == 0 {
		return nil
	}
	return res.Points[0].Coords
}

func joinE(v []float64) string {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = fmt.Sprintf("%E", x)
	}
	return strings.Join(s, " ")
}
