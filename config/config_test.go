package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridfit/fit"
	"gridfit/types"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	s, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Vars)
	assert.Equal(t, "paraboloid", s.Model)
	assert.Equal(t, "chisq", s.DataType)
	assert.Equal(t, 1.0, s.Delta)
	assert.Equal(t, types.DefaultCapacity, s.Capacity)
	assert.Empty(t, s.FileUsed)

	cfg, err := s.FitConfig()
	require.NoError(t, err)
	assert.Equal(t, fit.DefaultConfig(), cfg)
}

func TestLoadFilePicksUpLocalName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileNameAlt), []byte("vars: 2\n"), 0o644))
	t.Chdir(dir)

	s, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, FileNameAlt, s.FileUsed)
	assert.Equal(t, 2, s.Vars)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeFile(t, "vars: 2\nmodel: cubic\ndelta: 2.3\nrefit_distance: 5\n")

	t.Run("file over defaults", func(t *testing.T) {
		s, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, path, s.FileUsed)
		assert.Equal(t, 2, s.Vars)
		assert.Equal(t, "cubic", s.Model)
		assert.Equal(t, 2.3, s.Delta)
		assert.Equal(t, 5.0, s.RefitDistance)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("GRIDFIT_MODEL", "paraboloid")
		t.Setenv("GRIDFIT_DATA_TYPE", "generic")
		s, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "paraboloid", s.Model)
		assert.Equal(t, "generic", s.DataType)
		assert.Equal(t, 2, s.Vars)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("GRIDFIT_MODEL", "paraboloid")
		s, err := Load(path, newFlags(t, "--model", "linear", "--vars", "1", "--deming-delta", "4"))
		require.NoError(t, err)
		assert.Equal(t, "linear", s.Model)
		assert.Equal(t, 1, s.Vars)
		assert.Equal(t, 4.0, s.DemingDelta)
	})

	t.Run("unset flags keep env", func(t *testing.T) {
		t.Setenv("GRIDFIT_VARS", "3")
		s, err := Load(path, newFlags(t, "--find-min"))
		require.NoError(t, err)
		assert.Equal(t, 3, s.Vars)
		assert.True(t, s.FindMin)
		assert.Equal(t, "cubic", s.Model)
	})
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestDeltaForSigma(t *testing.T) {
	assert.InDelta(t, 1.0, DeltaForSigma(1, 1), 1e-6)
	assert.InDelta(t, 2.2957, DeltaForSigma(1, 2), 1e-4)
	assert.InDelta(t, 4.0, DeltaForSigma(2, 1), 1e-6)
	assert.InDelta(t, 3.5267, DeltaForSigma(1, 3), 1e-4)
}

func TestFitConfig(t *testing.T) {
	s := &Settings{
		Vars:          2,
		Model:         "Paraboloid",
		DataType:      "chisq",
		Sigma:         1,
		Confidence:    "ignored",
		RefitDistance: 3,
		DemingDelta:   1,
		Unweighted:    true,
		PlotMode:      "2d",
		ForceZeroY:    true,
	}
	cfg, err := s.FitConfig()
	require.NoError(t, err)
	assert.Equal(t, types.ModelParaboloid, cfg.Model)
	assert.InDelta(t, 2.2957, cfg.Delta, 1e-4)
	assert.Equal(t, "1-sigma", cfg.SigmaDesc)
	assert.True(t, cfg.Refit)
	assert.Equal(t, 3.0, cfg.RefitDistance)
	assert.False(t, cfg.Weighted)
	assert.Equal(t, types.Plot2D, cfg.PlotMode)
	assert.True(t, cfg.ForceZeroY)

	s.Sigma = 0
	s.Delta = 4
	s.Confidence = ""
	cfg, err = s.FitConfig()
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.Delta)
	assert.Equal(t, "delta chisq = 4", cfg.SigmaDesc)
}

func TestFitConfigErrors(t *testing.T) {
	base := Settings{Vars: 1, Model: "paraboloid", DataType: "chisq", Delta: 1, DemingDelta: 1}
	cases := map[string]func(*Settings){
		"model":     func(s *Settings) { s.Model = "quartic" },
		"data type": func(s *Settings) { s.DataType = "bogus" },
		"plot mode": func(s *Settings) { s.PlotMode = "3d" },
		"vars":      func(s *Settings) { s.Vars = 5 },
		"2d plot":   func(s *Settings) { s.PlotMode = "2d" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := base
			mutate(&s)
			_, err := s.FitConfig()
			assert.ErrorIs(t, err, fit.ErrInvalidConfig)
		})
	}
}
