package plot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"
)

// ErrClosed 会话已经提交或关闭
var ErrClosed = errors.New("plot: session closed")

// Session 一次绘图输出的作用域
// 文件先写入目标目录下的临时工作目录，Commit 后移动到目标目录；
// Close 总是删除工作目录，未提交的文件随之丢弃
type Session struct {
	dir   string
	work  string
	names []string
	done  bool
	log   logrus.FieldLogger
}

// NewSession 在 dir 下创建工作目录
func NewSession(dir string, log logrus.FieldLogger) (*Session, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("plot: create %s: %w", dir, err)
	}
	work, err := os.MkdirTemp(dir, ".gridfit-*")
	if err != nil {
		return nil, fmt.Errorf("plot: create work directory: %w", err)
	}
	return &Session{dir: dir, work: work, log: log.WithField("dir", dir)}, nil
}

// Dir 目标目录
func (s *Session) Dir() string { return s.dir }

// Create 在工作目录中创建文件
func (s *Session) Create(name string) (*os.File, error) {
	if s.done {
		return nil, ErrClosed
	}
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("plot: invalid file name %q", name)
	}
	f, err := os.Create(filepath.Join(s.work, name))
	if err != nil {
		return nil, err
	}
	if !slices.Contains(s.names, name) {
		s.names = append(s.names, name)
	}
	return f, nil
}

// WriteFile 写入一个完整文件
func (s *Session) WriteFile(name string, data []byte) error {
	f, err := s.Create(name)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Remove 放弃工作目录中的文件
func (s *Session) Remove(name string) error {
	if s.done {
		return ErrClosed
	}
	i := slices.Index(s.names, name)
	if i < 0 {
		return nil
	}
	s.names = slices.Delete(s.names, i, i+1)
	return os.Remove(filepath.Join(s.work, name))
}

// Commit 把工作目录中的文件移动到目标目录，返回最终路径
func (s *Session) Commit() ([]string, error) {
	if s.done {
		return nil, ErrClosed
	}
	s.done = true
	paths := make([]string, 0, len(s.names))
	for _, name := range s.names {
		dst := filepath.Join(s.dir, name)
		if err := os.Rename(filepath.Join(s.work, name), dst); err != nil {
			return paths, fmt.Errorf("plot: commit %s: %w", name, err)
		}
		paths = append(paths, dst)
	}
	s.log.WithField("files", len(paths)).Info("plot output written")
	return paths, nil
}

// Close 删除工作目录，可重复调用
func (s *Session) Close() error {
	s.done = true
	if s.work == "" {
		return nil
	}
	err := os.RemoveAll(s.work)
	s.work = ""
	return err
}
