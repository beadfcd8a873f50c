package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gridfit"
	"gridfit/config"
	"gridfit/fit"
	"gridfit/plot"
	"gridfit/report"
	"gridfit/types"
)

// Version 版本信息（构建时设置）
var Version = "0.1.0"

// NewRootCmd 创建根命令
func NewRootCmd() *cobra.Command {
	var cfgFile, exportFile string
	rootCmd := &cobra.Command{
		Use:   "gridfit [flags] <datafile>",
		Short: "Fit polynomial models to gridded data",
		Long: `gridfit fits a line, a paraboloid in 1-3 variables or a cubic to gridded data,
locates the critical points of the fit and reports their confidence intervals.

Data rows are "x [y [z]] value [uncertainty]". UPPER_LIMITS and LOWER_LIMITS
lines restrict the fit region for the rows that follow them.`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			log, err := newLogger(cmd, s.LogLevel)
			if err != nil {
				return err
			}
			if s.FileUsed != "" {
				log.WithField("file", s.FileUsed).Debug("using config file")
			}
			cfg, err := s.FitConfig()
			if err != nil {
				return err
			}
			return run(cmd, args[0], exportFile, s, cfg, log)
		},
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: ./gridfit.yaml)")
	rootCmd.Flags().StringVar(&exportFile, "export", "", "write the data used by the fit to this file")
	config.RegisterFlags(rootCmd.Flags())
	_ = rootCmd.RegisterFlagCompletionFunc("model", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"linear", "paraboloid", "cubic"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("plot-mode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"none", "1d", "2d"}, cobra.ShellCompDirectiveNoFileComp
	})
	return rootCmd
}

func newLogger(cmd *cobra.Command, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fit.ErrInvalidConfig, err)
	}
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(lvl)
	return log, nil
}

func run(cmd *cobra.Command, dataFile, exportFile string, s *config.Settings, cfg fit.Config, log *logrus.Logger) error {
	g, err := gridfit.NewGrid(cfg.NumVars, s.Capacity, log)
	if err != nil {
		return err
	}
	if err := g.Load(dataFile); err != nil {
		return err
	}
	res, err := g.Fit(cfg)
	if err != nil {
		return err
	}
	// 报告、导出与绘图使用参与拟合的数据
	used := g
	if cfg.Refit {
		if used, err = g.Kept(cfg); err != nil {
			return err
		}
	}

	rep := report.New(cmd.OutOrStdout(), report.Options{
		Verbosity: s.Verbosity,
		FindMin:   s.FindMin,
		FindMax:   s.FindMax,
	})
	if err := rep.Print(res, used.Dataset); err != nil {
		return err
	}
	if s.Output != "" {
		if err := writeJSON(s.Output, res); err != nil {
			return err
		}
		log.WithField("file", s.Output).Info("fit result written")
	}
	if exportFile != "" {
		if err := used.Export(exportFile); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"file": exportFile, "lines": used.Len()}).Info("data exported")
	}
	if cfg.PlotMode == types.PlotNone || s.PlotDir == "" {
		return nil
	}
	session, err := plot.NewSession(s.PlotDir, log)
	if err != nil {
		return err
	}
	defer session.Close()
	_, err = plot.Write(cmd.Context(), session, res, used.Dataset, cfg.PlotMode)
	return err
}

func writeJSON(name string, res *fit.Result) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := report.WriteJSON(file, res); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
