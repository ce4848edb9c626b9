package main

import (
	"strings"
	"sync"
	"time"

	"news-timeline-go/internal/config"
	"news-timeline-go/internal/logger"
)

// commandFlags holds values that override the environment when set.
type commandFlags struct {
	inputPath   string
	yearlyPath  string
	monthlyPath string
	indent      int

	backend string
	timeout time.Duration
}

type commandContext struct {
	flags commandFlags

	logOnce sync.Once
	log     *logger.Logger
}

func newCommandContext() *commandContext {
	return &commandContext{flags: commandFlags{indent: -1}}
}

// config loads the environment and applies any flags given on the command line.
func (c *commandContext) config() config.Config {
	cfg := config.Load()
	f := c.flags
	if v := strings.TrimSpace(f.inputPath); v != "" {
		cfg.InputPath = v
	}
	if v := strings.TrimSpace(f.yearlyPath); v != "" {
		cfg.YearlyOutputPath = v
	}
	if v := strings.TrimSpace(f.monthlyPath); v != "" {
		cfg.MonthlyOutputPath = v
	}
	if f.indent >= 0 {
		cfg.JSONIndent = f.indent
	}
	if v := strings.TrimSpace(f.backend); v != "" {
		cfg.Backend = strings.ToLower(v)
	}
	if f.timeout > 0 {
		cfg.ModelTimeout = f.timeout
	}
	return cfg
}

// logger returns the run-scoped logger shared by every stage of one invocation.
func (c *commandContext) logger() *logger.Logger {
	c.logOnce.Do(func() {
		c.log = logger.New().WithRun("")
	})
	return c.log
}
