package gridfit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"gridfit/dataset"
	"gridfit/fit"
)

// 拟合区域指令
const (
	DirectiveUpper = "UPPER_LIMITS"
	DirectiveLower = "LOWER_LIMITS"
)

// Grid 网格数据集
type Grid struct {
	*dataset.Dataset
	Log       logrus.FieldLogger
	Malformed int // 格式错误被跳过的行数
}

// NewGrid 初始化
func NewGrid(numVars, capacity int, log logrus.FieldLogger) (*Grid, error) {
	ds, err := dataset.New(numVars, capacity)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Grid{Dataset: ds, Log: log}, nil
}

// Load 加载数据文件
func (g *Grid) Load(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := g.Read(file); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

// Read 读取数据
//
//	数据行：x [y [z]] value [uncertainty]，不确定度缺省为 1
//	指令行：UPPER_LIMITS v1 [v2 [v3]] / LOWER_LIMITS v1 [v2 [v3]]，作用于之后的数据行
//
// 格式错误的行记录警告后跳过
func (g *Grid) Read(r io.Reader) error {
	n := g.NumVars()
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		// 解析指令
		if fields[0] == DirectiveUpper || fields[0] == DirectiveLower {
			if err := g.directive(fields[0], fields[1:]); err != nil {
				g.warnLine(line, err)
			}
			continue
		}
		if len(fields) != n+1 && len(fields) != n+2 {
			g.warnLine(line, fmt.Errorf("%d field(s), want %d or %d", len(fields), n+1, n+2))
			continue
		}
		vals, err := parseFloats(fields)
		if err != nil {
			g.warnLine(line, err)
			continue
		}
		row := dataset.Row{Value: vals[n], Uncertainty: 1}
		copy(row.X[:n], vals[:n])
		if len(vals) == n+2 {
			row.Uncertainty = vals[n+1]
		}
		if _, err := g.Add(row); err != nil {
			if errors.Is(err, dataset.ErrInvalidRow) {
				g.warnLine(line, err)
				continue
			}
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if g.Len() < 1 {
		if g.Skipped() > 0 {
			return fmt.Errorf("%w: %d line(s) skipped outside the fit region limits, consider changing these limits",
				dataset.ErrNoData, g.Skipped())
		}
		return dataset.ErrNoData
	}
	log := g.Log.WithFields(logrus.Fields{"lines": g.Len(), "skipped": g.Skipped()})
	log.Info("data read")
	if g.Skipped() > 0 {
		log.Infof("%d line(s) of data skipped (outside of fit region limits)", g.Skipped())
	}
	return nil
}

func (g *Grid) directive(name string, fields []string) error {
	n := g.NumVars()
	if len(fields) < n {
		return fmt.Errorf("%s needs %d value(s)", name, n)
	}
	vals, err := parseFloats(fields[:n])
	if err != nil {
		return err
	}
	if name == DirectiveUpper {
		err = g.SetUpperLimits(vals...)
	} else {
		err = g.SetLowerLimits(vals...)
	}
	if err != nil {
		return err
	}
	g.Log.WithField("limits", vals).Infof("set fit region %s limits", strings.ToLower(strings.TrimSuffix(name, "_LIMITS")))
	return nil
}

func (g *Grid) warnLine(line int, err error) {
	g.Malformed++
	g.Log.WithError(err).WithField("line", line).Warnf("improperly formatted data on line %d", line)
}

func parseFloats(fields []string) ([]float64, error) {
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// Export 导出数据文件
func (g *Grid) Export(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := g.Write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Write 按输入格式写出全部数据行（含不确定度）
func (g *Grid) Write(w io.Writer) error {
	writer := bufio.NewWriter(w)
	n := g.NumVars()
	for _, r := range g.All {
		for i := 0; i < n; i++ {
			fmt.Fprintf(writer, "%.10E ", r.X[i])
		}
		fmt.Fprintf(writer, "%.10E %.10E\n", r.Value, r.Uncertainty)
	}
	return writer.Flush()
}

// Fit 按配置拟合
func (g *Grid) Fit(cfg fit.Config) (*fit.Result, error) {
	f, err := fit.New(cfg, g.Log)
	if err != nil {
		return nil, err
	}
	return f.Fit(g.Dataset)
}

// Kept 重拟合筛选保留的数据
func (g *Grid) Kept(cfg fit.Config) (*Grid, error) {
	f, err := fit.New(cfg, g.Log)
	if err != nil {
		return nil, err
	}
	ds, err := f.Filter(g.Dataset)
	if err != nil {
		return nil, err
	}
	return &Grid{Dataset: ds, Log: g.Log}, nil
}
