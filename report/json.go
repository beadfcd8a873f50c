package report

import (
	"encoding/json"
	"io"
	"math"

	"gridfit/fit"
)

// jsonResult JSON 不能表示 NaN，误差与 χ²/NDF 以 null 输出
type jsonResult struct {
	*fit.Result
	Errors      []*float64   `json:"errors,omitempty"`
	ChiSqPerNDF *float64     `json:"chisqPerNdf"`
	Covariance  [][]*float64 `json:"covariance,omitempty"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// WriteJSON 以缩进 JSON 输出拟合结果
func WriteJSON(w io.Writer, res *fit.Result) error {
	out := jsonResult{Result: res, ChiSqPerNDF: finite(res.ChiSqPerNDF())}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, finite(e))
	}
	if cov := res.Covariance; cov != nil {
		n := cov.SymmetricDim()
		out.Covariance = make([][]*float64, n)
		for i := range n {
			out.Covariance[i] = make([]*float64, n)
			for j := range n {
				out.Covariance[i][j] = finite(cov.At(i, j))
			}
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
