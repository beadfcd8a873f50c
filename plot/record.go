package plot

import (
	"encoding/json"
	"io"

	"gridfit/fit"
	"gridfit/types"
)

// Curve 图中的数据点与拟合曲线（曲面时为网格）采样
type Curve struct {
	Slice
	Labels []string    `json:"labels"`
	Data   [][]float64 `json:"data"`          // 每行为自由变量坐标与测量值
	Fit    [][]float64 `json:"fit,omitempty"` // 每行为自由变量坐标与拟合值
}

// Record 一次拟合的全部绘图数据
type Record struct {
	Model   types.ModelType `json:"model"`
	NumVars int             `json:"numVars"`
	Curves  []Curve         `json:"curves"`
}

// samples 曲线采样点数
const samples = 100

// NewRecord 由选出的数据生成绘图记录
func NewRecord(res *fit.Result, slices []Slice) *Record {
	rec := &Record{Model: res.Model, NumVars: res.NumVars}
	for _, s := range slices {
		free := s.Free(res.NumVars)
		c := Curve{Slice: s}
		for _, v := range free {
			c.Labels = append(c.Labels, axisLabel(v))
		}
		c.Labels = append(c.Labels, "Value")
		for _, r := range s.Rows {
			row := make([]float64, 0, len(free)+1)
			for _, v := range free {
				row = append(row, r.X[v])
			}
			c.Data = append(c.Data, append(row, r.Value))
		}
		if len(free) == 1 {
			c.Fit = sampleCurve(res, s, free[0])
		} else {
			c.Fit = sampleSurface(res, s, free)
		}
		rec.Curves = append(rec.Curves, c)
	}
	return rec
}

// Render 以 JSON 输出
func (rec *Record) Render(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

func sampleCurve(res *fit.Result, s Slice, axis int) [][]float64 {
	lo, hi, ok := span(s.Rows, axis)
	if !ok {
		return nil
	}
	out := make([][]float64, samples)
	for i := range out {
		x := lo + (hi-lo)*float64(i)/float64(samples-1)
		out[i] = []float64{x, evalAt(res, s, []int{axis}, x)}
	}
	return out
}

// sampleSurface 在数据网格上计算拟合值
func sampleSurface(res *fit.Result, s Slice, free []int) [][]float64 {
	xs, ys := gridValues(s.Rows, free[0]), gridValues(s.Rows, free[1])
	out := make([][]float64, 0, len(xs)*len(ys))
	for _, x := range xs {
		for _, y := range ys {
			out = append(out, []float64{x, y, evalAt(res, s, free, x, y)})
		}
	}
	return out
}
