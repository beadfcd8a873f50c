package plot

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// DataFile 第 i 幅切片的数据文件名
func DataFile(i int) string { return fmt.Sprintf("slice%d.dat", i+1) }

// WriteData 以空格分隔的列写出切片数据
func (rec *Record) WriteData(w io.Writer, i int) error {
	cv := rec.Curves[i]
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", strings.Join(cv.Labels, " "))
	for _, d := range cv.Data {
		for k, v := range d {
			if k > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.10E", v)
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteScript 生成绘制全部切片的 gnuplot 脚本
// 数据文件与脚本位于同一目录
func (rec *Record) WriteScript(w io.Writer) error {
	var sb strings.Builder
	axes := []string{"x", "y", "z"}
	for i, cv := range rec.Curves {
		if i > 0 {
			sb.WriteString("pause -1\nreset\n")
		}
		surface := len(cv.Labels) == 3
		if surface {
			sb.WriteString("set grid\n")
		}
		for k, l := range cv.Labels {
			fmt.Fprintf(&sb, "set %slabel '%s'\n", axes[k], l)
			if smallValues(cv.Data, k) {
				fmt.Fprintf(&sb, "set format %s '%%12.2E'\n", axes[k])
			}
		}
		cmd, cols := "plot", "1:2"
		if surface {
			cmd, cols = "splot", "1:2:3"
		}
		fmt.Fprintf(&sb, "%s '%s' using %s with points title 'Data'", cmd, DataFile(i), cols)
		if cv.Form != "" {
			fmt.Fprintf(&sb, ", %s with lines title 'Fit'", cv.Form)
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// smallValues 第 k 列全部为绝对值小于 1e-3 的非零值
func smallValues(rows [][]float64, k int) bool {
	if len(rows) == 0 {
		return false
	}
	for _, r := range rows {
		if r[k] == 0 || math.Abs(r[k]) >= 1e-3 {
			return false
		}
	}
	return true
}
