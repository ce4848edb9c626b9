package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := newCommandContext()

	rootCmd := &cobra.Command{
		Use:           "newsline",
		Short:         "Build year and month timelines of scored, categorized news headlines",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.flags.inputPath, "in", "", "Input headline table (.csv or .xlsx); overrides INPUT_PATH")
	flags.StringVar(&ctx.flags.yearlyPath, "yearly", "", "Year document path; overrides YEARLY_OUTPUT_PATH")
	flags.StringVar(&ctx.flags.monthlyPath, "monthly", "", "Month document path; overrides MONTHLY_OUTPUT_PATH")
	flags.IntVar(&ctx.flags.indent, "indent", -1, "JSON indent width, 0 for compact; overrides JSON_INDENT")

	rootCmd.AddCommand(newEnrichCommand(ctx))
	rootCmd.AddCommand(newRegroupCommand(ctx))
	rootCmd.AddCommand(newRunCommand(ctx))

	return rootCmd
}

// addBackendFlags registers the model flags used by commands that run Stage 1.
func addBackendFlags(cmd *cobra.Command, ctx *commandContext) {
	cmd.Flags().StringVar(&ctx.flags.backend, "backend", "", "Model backend: huggingface, openai, gateway or mock; overrides MODEL_BACKEND")
	cmd.Flags().DurationVar(&ctx.flags.timeout, "timeout", 0, "Per-call model timeout; overrides MODEL_TIMEOUT")
}
