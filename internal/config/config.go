// Package config holds the tuning-constant table and the functional-options
// constructor pattern, grounded on benc.go's BufPool/Opts/optFunc shape
// (github.com/banditmoscow1337/benc), generalized from a single buffer-size
// knob to the full generator tuning table. An optional TOML overlay,
// grounded on gomantics-cfgx's file-driven configuration, may supply a
// subset of fields before CLI flags apply their own overrides.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the full tuning-constant table for one generation run.
type Config struct {
	MaxExprDepth            int
	MaxArithExprDepth       int
	MaxBoolExprDepth        int
	MaxStmtsInBlock         int
	MaxConditionalBranches  int
	MaxConditionalDepth     int
	MaxLoopDepth            int
	MaxForLoopIters         int
	ProbMaxForLoopIters     float64
	MaxStructs              int
	MaxFuncs                int
	MaxFuncParams           int
	RetryCap                int
}

type optFunc func(*Config)

// Option mutates a Config during construction.
type Option = optFunc

func defaultConfig() *Config {
	return &Config{
		MaxExprDepth:           6,
		MaxArithExprDepth:      4,
		MaxBoolExprDepth:       3,
		MaxStmtsInBlock:        8,
		MaxConditionalBranches: 3,
		MaxConditionalDepth:    3,
		MaxLoopDepth:           2,
		MaxForLoopIters:        1000,
		ProbMaxForLoopIters:    0.5,
		MaxStructs:             6,
		MaxFuncs:               8,
		MaxFuncParams:          5,
		RetryCap:               100,
	}
}

// New builds a Config from the defaults with opts applied in order.
func New(opts ...Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func WithMaxExprDepth(v int) Option           { return func(c *Config) { c.MaxExprDepth = v } }
func WithMaxArithExprDepth(v int) Option      { return func(c *Config) { c.MaxArithExprDepth = v } }
func WithMaxBoolExprDepth(v int) Option       { return func(c *Config) { c.MaxBoolExprDepth = v } }
func WithMaxStmtsInBlock(v int) Option        { return func(c *Config) { c.MaxStmtsInBlock = v } }
func WithMaxConditionalBranches(v int) Option { return func(c *Config) { c.MaxConditionalBranches = v } }
func WithMaxConditionalDepth(v int) Option    { return func(c *Config) { c.MaxConditionalDepth = v } }
func WithMaxLoopDepth(v int) Option           { return func(c *Config) { c.MaxLoopDepth = v } }
func WithMaxForLoopIters(v int) Option        { return func(c *Config) { c.MaxForLoopIters = v } }
func WithProbMaxForLoopIters(v float64) Option {
	return func(c *Config) { c.ProbMaxForLoopIters = v }
}
func WithMaxStructs(v int) Option    { return func(c *Config) { c.MaxStructs = v } }
func WithMaxFuncs(v int) Option      { return func(c *Config) { c.MaxFuncs = v } }
func WithMaxFuncParams(v int) Option { return func(c *Config) { c.MaxFuncParams = v } }
func WithRetryCap(v int) Option      { return func(c *Config) { c.RetryCap = v } }

// fileOverlay mirrors Config's fields as pointers so that an unset TOML key
// never clobbers a default or an earlier-applied value.
type fileOverlay struct {
	MaxExprDepth            *int     `toml:"max_expr_depth"`
	MaxArithExprDepth       *int     `toml:"max_arith_expr_depth"`
	MaxBoolExprDepth        *int     `toml:"max_bool_expr_depth"`
	MaxStmtsInBlock         *int     `toml:"max_stmts_in_block"`
	MaxConditionalBranches  *int     `toml:"max_conditional_branches"`
	MaxConditionalDepth     *int     `toml:"max_conditional_depth"`
	MaxLoopDepth            *int     `toml:"max_loop_depth"`
	MaxForLoopIters         *int     `toml:"max_for_loop_iters"`
	ProbMaxForLoopIters     *float64 `toml:"prob_max_for_loop_iters"`
	MaxStructs              *int     `toml:"max_structs"`
	MaxFuncs                *int     `toml:"max_funcs"`
	MaxFuncParams           *int     `toml:"max_func_params"`
	RetryCap                *int     `toml:"retry_cap"`
}

// LoadFile reads a TOML overlay and returns the Options needed to apply it,
// so callers can layer it between defaults and CLI flags:
// New(append(fileOpts, cliOpts...)...), CLI-derived options last.
func LoadFile(path string) ([]Option, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var overlay fileOverlay
	if err := toml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	var opts []Option
	if overlay.MaxExprDepth != nil {
		opts = append(opts, WithMaxExprDepth(*overlay.MaxExprDepth))
	}
	if overlay.MaxArithExprDepth != nil {
		opts = append(opts, WithMaxArithExprDepth(*overlay.MaxArithExprDepth))
	}
	if overlay.MaxBoolExprDepth != nil {
		opts = append(opts, WithMaxBoolExprDepth(*overlay.MaxBoolExprDepth))
	}
	if overlay.MaxStmtsInBlock != nil {
		opts = append(opts, WithMaxStmtsInBlock(*overlay.MaxStmtsInBlock))
	}
	if overlay.MaxConditionalBranches != nil {
		opts = append(opts, WithMaxConditionalBranches(*overlay.MaxConditionalBranches))
	}
	if overlay.MaxConditionalDepth != nil {
		opts = append(opts, WithMaxConditionalDepth(*overlay.MaxConditionalDepth))
	}
	if overlay.MaxLoopDepth != nil {
		opts = append(opts, WithMaxLoopDepth(*overlay.MaxLoopDepth))
	}
	if overlay.MaxForLoopIters != nil {
		opts = append(opts, WithMaxForLoopIters(*overlay.MaxForLoopIters))
	}
	if overlay.ProbMaxForLoopIters != nil {
		opts = append(opts, WithProbMaxForLoopIters(*overlay.ProbMaxForLoopIters))
	}
	if overlay.MaxStructs != nil {
		opts = append(opts, WithMaxStructs(*overlay.MaxStructs))
	}
	if overlay.MaxFuncs != nil {
		opts = append(opts, WithMaxFuncs(*overlay.MaxFuncs))
	}
	if overlay.MaxFuncParams != nil {
		opts = append(opts, WithMaxFuncParams(*overlay.MaxFuncParams))
	}
	if overlay.RetryCap != nil {
		opts = append(opts, WithRetryCap(*overlay.RetryCap))
	}
	return opts, nil
}

// Validate rejects a Config whose retry cap or expression-depth cap is
// below 1, whose statements-per-block count is negative, or whose loop-guard
// probability lies outside [0,1]. The other fields are not checked.
func (c *Config) Validate() error {
	if c.RetryCap < 1 {
		return fmt.Errorf("config: retry_cap must be >= 1, got %d", c.RetryCap)
	}
	if c.MaxExprDepth < 1 {
		return fmt.Errorf("config: max_expr_depth must be >= 1, got %d", c.MaxExprDepth)
	}
	if c.MaxStmtsInBlock < 0 {
		return fmt.Errorf("config: max_stmts_in_block must be >= 0, got %d", c.MaxStmtsInBlock)
	}
	if c.ProbMaxForLoopIters < 0 || c.ProbMaxForLoopIters > 1 {
		return fmt.Errorf("config: prob_max_for_loop_iters must be in [0,1], got %f", c.ProbMaxForLoopIters)
	}
	return nil
}
