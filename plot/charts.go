package plot

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Charts 交互式 HTML 图表
type Charts struct {
	*Record
}

// Render 每幅切片一个图表，写入同一页面
func (c *Charts) Render(w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = "gridfit"
	for i, cv := range c.Curves {
		if len(cv.Labels) == 2 {
			page.AddCharts(c.curve(i, cv))
		} else {
			page.AddCharts(c.surface(i, cv))
		}
	}
	return page.Render(w)
}

func title(i int, cv Curve) opts.Title {
	t := opts.Title{Title: fmt.Sprintf("Slice %d", i+1), Subtitle: cv.Form}
	if cv.Form == "" {
		t.Subtitle = cv.Labels[len(cv.Labels)-1] + " vs " + cv.Labels[0]
	}
	return t
}

// curve 数据散点叠加拟合曲线
func (c *Charts) curve(i int, cv Curve) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(title(i, cv)),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:  "value",
			Name:  cv.Labels[0],
			Scale: opts.Bool(true),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Name:  cv.Labels[1],
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	fitData := make([]opts.LineData, len(cv.Fit))
	for k, p := range cv.Fit {
		fitData[k] = opts.LineData{Value: []any{p[0], p[1]}}
	}
	line.AddSeries("Fit", fitData,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
	)
	scatter := charts.NewScatter()
	points := make([]opts.ScatterData, len(cv.Data))
	for k, p := range cv.Data {
		points[k] = opts.ScatterData{Value: []any{p[0], p[1]}, SymbolSize: 8}
	}
	scatter.AddSeries("Data", points)
	line.Overlap(scatter)
	return line
}

// surface 拟合值热力图，坐标为数据网格
func (c *Charts) surface(i int, cv Curve) *charts.HeatMap {
	xs, ys := axisValues(cv.Fit, 0), axisValues(cv.Fit, 1)
	xi, yi := indexOf(xs), indexOf(ys)
	lo, hi := math.Inf(1), math.Inf(-1)
	data := make([]opts.HeatMapData, 0, len(cv.Fit))
	for _, p := range cv.Fit {
		lo, hi = math.Min(lo, p[2]), math.Max(hi, p[2])
		data = append(data, opts.HeatMapData{Value: [3]any{xi[p[0]], yi[p[1]], p[2]}})
	}
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(title(i, cv)),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Name:      cv.Labels[0],
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Name:      cv.Labels[1],
			Data:      labels(ys),
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#313695", "#74add1", "#ffffbf", "#f46d43", "#a50026"},
			},
		}),
	)
	hm.SetXAxis(labels(xs)).AddSeries("Fit", data)
	return hm
}

// axisValues 第 k 列的不同取值（保持出现顺序）
func axisValues(rows [][]float64, k int) []float64 {
	var out []float64
	seen := map[float64]bool{}
	for _, r := range rows {
		if !seen[r[k]] {
			seen[r[k]] = true
			out = append(out, r[k])
		}
	}
	return out
}

func indexOf(vals []float64) map[float64]int {
	m := make(map[float64]int, len(vals))
	for i, v := range vals {
		m[v] = i
	}
	return m
}

func labels(vals []float64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strconv.FormatFloat(v, 'g', 6, 64)
	}
	return out
}
