// Command smith generates random, type- and borrow-checked programs for
// differential compiler fuzz testing, one file per seed.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/banditmoscow1337/smith/internal/config"
	"github.com/banditmoscow1337/smith/internal/generate"
	"github.com/banditmoscow1337/smith/internal/logging"
)

var (
	seed       int64
	count      int
	filename   string
	outputDir  string
	configPath string
	verbose    bool

	maxExprDepth           int
	maxArithExprDepth      int
	maxBoolExprDepth       int
	maxStmtsInBlock        int
	maxConditionalBranches int
	maxConditionalDepth    int
	maxLoopDepth           int
	maxForLoopIters        int
	probMaxForLoopIters    float64
	maxStructs             int
	maxFuncs               int
	maxFuncParams          int
	retryCap               int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smith",
	Short: "Generate random ownership-checked programs for compiler fuzz testing",
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one or more seeded programs",
	Example: `  # Generate a single program from seed 0
  smith generate --seed 0 --output-dir out

  # Generate 100 programs starting at seed 0
  smith generate --seed 0 --count 100 --output-dir out

  # Override tuning constants from a TOML file
  smith generate --seed 0 --config tuning.toml --output-dir out`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.SetVerbose(verbose)

		var opts []config.Option
		if configPath != "" {
			fileOpts, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}
			opts = append(opts, fileOpts...)
		}
		// Per-constant flags are applied last, after the TOML overlay, so an
		// explicitly passed flag always wins over both the file and the
		// defaults; flags left untouched never appear here at all.
		opts = append(opts, tuningFlagOverrides(cmd.Flags())...)
		cfg := config.New(opts...)
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("smith: creating output directory %s: %w", outputDir, err)
		}

		for i := 0; i < count; i++ {
			s := seed + int64(i)
			out, err := generate.Seed(s, cfg)
			if err != nil {
				return fmt.Errorf("smith: seed %d: %w", s, err)
			}

			path := filepath.Join(outputDir, fmt.Sprintf("seed_%d.rs", s))
			if err := os.WriteFile(path, out, 0o644); err != nil {
				return fmt.Errorf("smith: writing %s: %w", path, err)
			}
			logging.Debugf("wrote %s", path)
		}

		logging.Infof("generated %d program(s) in %s", count, outputDir)
		return nil
	},
	SilenceUsage: true,
}

// tuningFlagOverrides returns one config.Option per tuning-constant flag the
// user actually passed on this invocation, so an untouched flag never
// shadows a TOML-supplied or default value.
func tuningFlagOverrides(flags *pflag.FlagSet) []config.Option {
	var opts []config.Option
	if flags.Changed("max-expr-depth") {
		opts = append(opts, config.WithMaxExprDepth(maxExprDepth))
	}
	if flags.Changed("max-arith-expr-depth") {
		opts = append(opts, config.WithMaxArithExprDepth(maxArithExprDepth))
	}
	if flags.Changed("max-bool-expr-depth") {
		opts = append(opts, config.WithMaxBoolExprDepth(maxBoolExprDepth))
	}
	if flags.Changed("max-stmts-in-block") {
		opts = append(opts, config.WithMaxStmtsInBlock(maxStmtsInBlock))
	}
	if flags.Changed("max-conditional-branches") {
		opts = append(opts, config.WithMaxConditionalBranches(maxConditionalBranches))
	}
	if flags.Changed("max-conditional-depth") {
		opts = append(opts, config.WithMaxConditionalDepth(maxConditionalDepth))
	}
	if flags.Changed("max-loop-depth") {
		opts = append(opts, config.WithMaxLoopDepth(maxLoopDepth))
	}
	if flags.Changed("max-for-loop-iters") {
		opts = append(opts, config.WithMaxForLoopIters(maxForLoopIters))
	}
	if flags.Changed("prob-max-for-loop-iters") {
		opts = append(opts, config.WithProbMaxForLoopIters(probMaxForLoopIters))
	}
	if flags.Changed("max-structs") {
		opts = append(opts, config.WithMaxStructs(maxStructs))
	}
	if flags.Changed("max-funcs") {
		opts = append(opts, config.WithMaxFuncs(maxFuncs))
	}
	if flags.Changed("max-func-params") {
		opts = append(opts, config.WithMaxFuncParams(maxFuncParams))
	}
	if flags.Changed("retry-cap") {
		opts = append(opts, config.WithRetryCap(retryCap))
	}
	return opts
}

func init() {
	generateCmd.Flags().Int64VarP(&seed, "seed", "s", 0, "starting seed")
	generateCmd.Flags().IntVarP(&count, "count", "c", 1, "number of seeds to generate, starting at --seed")
	generateCmd.Flags().StringVarP(&filename, "filename", "f", "", "reserved for future single-file output override")
	generateCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory to write generated files into")
	generateCmd.Flags().StringVar(&configPath, "config", "", "optional TOML file overriding tuning constants")
	generateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also log one line per written file")

	generateCmd.Flags().IntVar(&maxExprDepth, "max-expr-depth", 0, "override: maximum expression nesting depth")
	generateCmd.Flags().IntVar(&maxArithExprDepth, "max-arith-expr-depth", 0, "override: maximum arithmetic-expression nesting depth")
	generateCmd.Flags().IntVar(&maxBoolExprDepth, "max-bool-expr-depth", 0, "override: maximum boolean-expression nesting depth")
	generateCmd.Flags().IntVar(&maxStmtsInBlock, "max-stmts-in-block", 0, "override: maximum statements per block")
	generateCmd.Flags().IntVar(&maxConditionalBranches, "max-conditional-branches", 0, "override: maximum if/else-if arms per conditional")
	generateCmd.Flags().IntVar(&maxConditionalDepth, "max-conditional-depth", 0, "override: maximum nested conditional depth")
	generateCmd.Flags().IntVar(&maxLoopDepth, "max-loop-depth", 0, "override: maximum nested loop depth")
	generateCmd.Flags().IntVar(&maxForLoopIters, "max-for-loop-iters", 0, "override: iteration-bound guard threshold")
	generateCmd.Flags().Float64Var(&probMaxForLoopIters, "prob-max-for-loop-iters", 0, "override: probability a loop gets an iteration-bound guard")
	generateCmd.Flags().IntVar(&maxStructs, "max-structs", 0, "override: maximum declared structs per program")
	generateCmd.Flags().IntVar(&maxFuncs, "max-funcs", 0, "override: maximum top-level functions per program")
	generateCmd.Flags().IntVar(&maxFuncParams, "max-func-params", 0, "override: maximum parameters per function")
	generateCmd.Flags().IntVar(&retryCap, "retry-cap", 0, "override: weighted-variant retry cap before falling back to the base case")

	rootCmd.AddCommand(generateCmd)
}
