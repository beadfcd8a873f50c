package plot

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"gridfit/dataset"
	"gridfit/fit"
	"gridfit/types"
)

// 输出文件名
const (
	RecordFile = "record.json"
	ChartFile  = "chart.html"
	ScriptFile = "plot.gp"
)

// PNGFile 第 i 幅切片的图像文件名
func PNGFile(i int) string { return fmt.Sprintf("slice%d.png", i+1) }

// Write 在会话中写出全部绘图文件并提交，返回最终路径
// ctx 取消时未提交的文件由 Session.Close 删除
func Write(ctx context.Context, s *Session, res *fit.Result, ds *dataset.Dataset, mode types.PlotMode) ([]string, error) {
	sl, err := Select(res, ds, mode)
	if err != nil {
		return nil, err
	}
	rec := NewRecord(res, sl)
	log := s.log.WithFields(logrus.Fields{"model": res.Model, "slices": len(rec.Curves)})

	write := func(name string, render func(io.Writer) error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := s.Create(name)
		if err != nil {
			return err
		}
		if err := render(f); err != nil {
			f.Close()
			return fmt.Errorf("plot: write %s: %w", name, err)
		}
		return f.Close()
	}

	if err := write(RecordFile, rec.Render); err != nil {
		return nil, err
	}
	if err := write(ChartFile, (&Charts{Record: rec}).Render); err != nil {
		return nil, err
	}
	for i, cv := range rec.Curves {
		if len(cv.Data) == 0 {
			log.WithField("slice", i+1).Warn("no data points in plot slice")
		}
		if err := write(DataFile(i), func(w io.Writer) error { return rec.WriteData(w, i) }); err != nil {
			return nil, err
		}
		if err := write(PNGFile(i), func(w io.Writer) error { return rec.RenderPNG(w, i) }); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithError(err).WithField("slice", i+1).Warn("static plot skipped")
			if err := s.Remove(PNGFile(i)); err != nil {
				return nil, err
			}
		}
	}
	if err := write(ScriptFile, rec.WriteScript); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Commit()
}
