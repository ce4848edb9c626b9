package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"news-timeline-go/internal/config"
	"news-timeline-go/internal/extractor"
	"news-timeline-go/internal/pipeline"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Score and categorize headlines, then write them grouped by year",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config()
			if err := cfg.ValidatePaths(); err != nil {
				return err
			}
			res, err := runEnrich(cmd, ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.String())
			return nil
		},
	}
	addBackendFlags(cmd, ctx)
	return cmd
}

func newRegroupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "regroup",
		Short: "Split the year document into year/month buckets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config()
			if err := cfg.ValidatePaths(); err != nil {
				return err
			}
			res, err := runRegroup(cmd, ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.String())
			return nil
		},
	}
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run enrich then regroup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config()
			if err := cfg.ValidatePaths(); err != nil {
				return err
			}
			enriched, err := runEnrich(cmd, ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), enriched.String())

			regrouped, err := runRegroup(cmd, ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), regrouped.String())
			return nil
		},
	}
	addBackendFlags(cmd, ctx)
	return cmd
}

func runEnrich(cmd *cobra.Command, ctx *commandContext, cfg config.Config) (pipeline.EnrichResult, error) {
	log := ctx.logger()
	backend, err := extractor.New(cfg, log.Component("extractor"))
	if err != nil {
		return pipeline.EnrichResult{}, fmt.Errorf("model backend: %w", err)
	}
	log.Component("cli").WithField("backend", backend.Name()).Info("starting enrich stage")
	return pipeline.Enrich(cmd.Context(), pipeline.EnrichOptions{
		InputPath:  cfg.InputPath,
		OutputPath: cfg.YearlyOutputPath,
		Indent:     cfg.JSONIndent,
	}, backend, log)
}

func runRegroup(cmd *cobra.Command, ctx *commandContext, cfg config.Config) (pipeline.RegroupResult, error) {
	log := ctx.logger()
	log.Component("cli").Info("starting regroup stage")
	return pipeline.Regroup(cmd.Context(), pipeline.RegroupOptions{
		InputPath:  cfg.YearlyOutputPath,
		OutputPath: cfg.MonthlyOutputPath,
		Indent:     cfg.JSONIndent,
	}, log)
}
