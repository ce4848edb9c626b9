package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"news-timeline-go/internal/aggregator"
	"news-timeline-go/internal/logger"
)

type RegroupOptions struct {
	InputPath  string
	OutputPath string
	Indent     int
}

type RegroupResult struct {
	OutputPath string
	Years      []aggregator.YearCount
	RecordsIn  int
	RecordsOut int
}

func (r RegroupResult) String() string {
	return fmt.Sprintf("wrote %d of %d headlines across %d years to %s",
		r.RecordsOut, r.RecordsIn, len(r.Years), r.OutputPath)
}

// Regroup runs Stage 2: read the year document and write it back out with
// each year split into month buckets.
func Regroup(ctx context.Context, opts RegroupOptions, log *logger.Logger) (RegroupResult, error) {
	stageLog := log.Component("regroup")
	res := RegroupResult{OutputPath: opts.OutputPath}

	years, err := ReadYearBuckets(opts.InputPath)
	if err != nil {
		return res, err
	}
	stageLog.WithFields(logrus.Fields{
		"path":  opts.InputPath,
		"years": years.Len(),
	}).Info("year document loaded")

	for _, y := range aggregator.Counts(years) {
		res.RecordsIn += y.Records
		stageLog.WithFields(logrus.Fields{"year": y.Year, "headlines": y.Records}).Info("processing year")
	}

	months := aggregator.RegroupByMonth(years, log.Component("months"))
	res.Years = aggregator.MonthCounts(months)
	for _, y := range res.Years {
		res.RecordsOut += y.Records
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := WriteJSONFileAtomic(opts.OutputPath, months, opts.Indent); err != nil {
		return res, err
	}
	stageLog.WithFields(logrus.Fields{
		"path":    opts.OutputPath,
		"kept":    res.RecordsOut,
		"skipped": res.RecordsIn - res.RecordsOut,
	}).Info("month document saved")
	return res, nil
}
