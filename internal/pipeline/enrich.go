package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"news-timeline-go/internal/aggregator"
	"news-timeline-go/internal/dataset"
	"news-timeline-go/internal/extractor"
	"news-timeline-go/internal/logger"
	"news-timeline-go/internal/processor"
)

// EnrichOptions configures one Stage 1 run.
type EnrichOptions struct {
	InputPath  string
	OutputPath string
	Indent     int
}

// EnrichResult describes what a Stage 1 run produced.
type EnrichResult struct {
	OutputPath   string
	RowsLoaded   int
	InvalidDates int
	Stats        processor.Stats
	Years        []aggregator.YearCount
	Summary      dataset.Summary
}

// String is the one-line summary printed by the CLI.
func (r EnrichResult) String() string {
	return fmt.Sprintf("wrote %d headlines across %d years to %s (%d rows loaded, %d bad dates, %d out-of-set, mean sentiment %.3f)",
		r.Stats.Output, len(r.Years), r.OutputPath, r.RowsLoaded, r.InvalidDates, r.Stats.OutOfSet, r.Summary.MeanSentiment)
}

// Enrich runs Stage 1: load the table, drop bad dates, score and classify each
// headline, group by year and write the year document. Per-record problems
// are logged and absorbed; only I/O and table-shape errors are returned.
func Enrich(ctx context.Context, opts EnrichOptions, backend extractor.Backend, log *logger.Logger) (EnrichResult, error) {
	stageLog := log.Component("enrich")
	res := EnrichResult{OutputPath: opts.OutputPath}

	if err := checkInput(opts.InputPath); err != nil {
		return res, err
	}

	stageLog.WithField("path", opts.InputPath).Info("loading input table")
	table, err := dataset.Load(opts.InputPath)
	if err != nil {
		return res, fmt.Errorf("load %s: %w", opts.InputPath, err)
	}
	res.RowsLoaded = len(table.Rows)
	stageLog.WithFields(logrus.Fields{
		"rows":    len(table.Rows),
		"columns": len(table.Header),
		"header":  strings.Join(table.Header, ","),
	}).Info("input table loaded")
	logHead(stageLog, table)

	headlines := dataset.NormalizeDates(table.Rows, log.Component("dates"))
	res.InvalidDates = len(table.Rows) - len(headlines)
	stageLog.WithFields(logrus.Fields{
		"valid":   len(headlines),
		"dropped": res.InvalidDates,
	}).Info("publish dates normalized")

	enricher := processor.NewEnricher(backend, backend, log.Component("processor").WithField("backend", backend.Name()))
	enriched, stats := enricher.Enrich(ctx, headlines)
	res.Stats = stats

	res.Summary = dataset.Summarize(enriched)
	for _, c := range res.Summary.CategoryCounts() {
		stageLog.WithFields(logrus.Fields{"category": c.Category, "count": c.Count}).Info("category value count")
	}

	years := aggregator.GroupByYear(enriched)
	res.Years = aggregator.Counts(years)

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := WriteJSONFileAtomic(opts.OutputPath, years, opts.Indent); err != nil {
		return res, err
	}

	stageLog.WithFields(logrus.Fields{
		"path":  opts.OutputPath,
		"years": len(res.Years),
	}).Info("year document saved")
	for _, y := range res.Years {
		stageLog.WithFields(logrus.Fields{"year": y.Year, "headlines": y.Records}).Info("headlines per year")
	}
	return res, nil
}

func logHead(log *logrus.Entry, table dataset.Table) {
	if !log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	n := len(table.Rows)
	if n > 5 {
		n = 5
	}
	for _, r := range table.Rows[:n] {
		log.WithFields(logrus.Fields{
			"line":         r.Line,
			"publish_date": r.PublishDate,
			"headline":     dataset.Truncate(r.HeadlineText, 50),
		}).Debug("head")
	}
}
