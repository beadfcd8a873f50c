package plot

import (
	"fmt"
	"io"
	"math"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// 图像尺寸
const (
	imageWidth  = 6 * vg.Inch
	imageHeight = 4 * vg.Inch
)

// RenderPNG 绘制第 i 幅切片的静态图像
func (rec *Record) RenderPNG(w io.Writer, i int) error {
	cv := rec.Curves[i]
	p := gplot.New()
	p.Title.Text = cv.Form
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("Slice %d", i+1)
	}
	p.X.Label.Text = cv.Labels[0]
	p.Y.Label.Text = cv.Labels[1]
	var err error
	if len(cv.Labels) == 2 {
		err = rec.addCurve(p, cv)
	} else {
		err = addSurface(p, cv)
	}
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(imageWidth, imageHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// addCurve 数据散点与拟合函数
func (rec *Record) addCurve(p *gplot.Plot, cv Curve) error {
	pts := make(plotter.XYs, len(cv.Data))
	for k, d := range cv.Data {
		pts[k].X, pts[k].Y = d[0], d[1]
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("plot: scatter: %w", err)
	}
	p.Add(sc, plotter.NewGrid())
	p.Legend.Add("Data", sc)
	if len(cv.Fit) > 0 {
		xs := make([]float64, len(cv.Fit))
		ys := make([]float64, len(cv.Fit))
		for k, f := range cv.Fit {
			xs[k], ys[k] = f[0], f[1]
		}
		fn := plotter.NewFunction(func(x float64) float64 { return interpolate(xs, ys, x) })
		fn.XMin, fn.XMax = xs[0], xs[len(xs)-1]
		fn.Samples = len(xs)
		p.Add(fn)
		p.Legend.Add("Fit", fn)
	}
	return nil
}

// interpolate 在采样点之间线性插值
func interpolate(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if n == 1 || x <= xs[0] {
		return ys[0]
	}
	for k := 1; k < n; k++ {
		if x <= xs[k] {
			t := (x - xs[k-1]) / (xs[k] - xs[k-1])
			return ys[k-1] + t*(ys[k]-ys[k-1])
		}
	}
	return ys[n-1]
}

// grid 按数据网格组织的拟合值，实现 plotter.GridXYZ
type grid struct {
	xs, ys []float64
	z      [][]float64 // z[c][r]
}

func newGrid(fit [][]float64) *grid {
	xs, ys := axisValues(fit, 0), axisValues(fit, 1)
	xi, yi := indexOf(xs), indexOf(ys)
	g := &grid{xs: xs, ys: ys, z: make([][]float64, len(xs))}
	for c := range g.z {
		g.z[c] = make([]float64, len(ys))
		for r := range g.z[c] {
			g.z[c][r] = math.NaN()
		}
	}
	for _, f := range fit {
		g.z[xi[f[0]]][yi[f[1]]] = f[2]
	}
	return g
}

func (g *grid) Dims() (c, r int)   { return len(g.xs), len(g.ys) }
func (g *grid) Z(c, r int) float64 { return g.z[c][r] }
func (g *grid) X(c int) float64    { return g.xs[c] }
func (g *grid) Y(r int) float64    { return g.ys[r] }

func addSurface(p *gplot.Plot, cv Curve) error {
	g := newGrid(cv.Fit)
	if c, r := g.Dims(); c < 2 || r < 2 {
		return fmt.Errorf("plot: surface needs at least a 2x2 grid, got %dx%d", c, r)
	}
	p.Add(plotter.NewHeatMap(g, palette.Heat(12, 1)))
	pts := make(plotter.XYs, len(cv.Data))
	for k, d := range cv.Data {
		pts[k].X, pts[k].Y = d[0], d[1]
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("plot: scatter: %w", err)
	}
	p.Add(sc)
	p.Legend.Add("Data", sc)
	return nil
}
