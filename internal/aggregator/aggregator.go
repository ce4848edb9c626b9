package aggregator

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"news-timeline-go/internal/dataset"
	"news-timeline-go/internal/types"
)

// GroupByYear sorts headlines by publish date and buckets them by year.
// Headlines sharing a date keep their input order, and years appear in
// ascending order.
func GroupByYear(headlines []types.Headline) *types.YearBuckets {
	sorted := make([]types.Headline, len(headlines))
	copy(sorted, headlines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishDate.Before(sorted[j].PublishDate)
	})

	out := types.NewYearBuckets()
	for _, h := range sorted {
		key := strconv.Itoa(h.PublishDate.Year())
		recs, _ := out.Get(key)
		out.Set(key, append(recs, h.Record()))
	}
	return out
}

// RegroupByMonth splits every year bucket into month buckets keyed "1".."12".
// Years keep their order, months appear in the order first met, and records
// keep their relative order and their original bytes. A record whose
// publish_date is missing or does not parse is logged and dropped.
func RegroupByMonth(years *types.RawYearBuckets, log *logrus.Entry) *types.MonthBuckets {
	out := types.NewMonthBuckets()
	if years == nil {
		return out
	}
	for pair := years.Oldest(); pair != nil; pair = pair.Next() {
		months := types.NewMonthRecords()
		for _, rec := range pair.Value {
			d, err := recordDate(rec)
			if err != nil {
				log.WithFields(logrus.Fields{
					"year":     pair.Key,
					"headline": dataset.Truncate(recordHeadline(rec), 50),
				}).WithError(err).Warn("skipping record with unparseable publish_date")
				continue
			}
			key := strconv.Itoa(int(d.Month()))
			recs, _ := months.Get(key)
			months.Set(key, append(recs, rec))
		}
		out.Set(pair.Key, months)
	}
	return out
}

// recordFields holds the only keys Stage 2 looks at.
type recordFields struct {
	PublishDate  json.RawMessage `json:"publish_date"`
	HeadlineText json.RawMessage `json:"headline_text"`
}

func recordDate(rec json.RawMessage) (time.Time, error) {
	var f recordFields
	if err := json.Unmarshal(rec, &f); err != nil {
		return time.Time{}, fmt.Errorf("record is not a JSON object: %w", err)
	}
	if len(f.PublishDate) == 0 {
		return time.Time{}, errors.New("publish_date is missing")
	}
	var raw string
	if err := json.Unmarshal(f.PublishDate, &raw); err != nil {
		return time.Time{}, fmt.Errorf("publish_date %s is not a string", f.PublishDate)
	}
	return types.ParseRecordDate(raw)
}

func recordHeadline(rec json.RawMessage) string {
	var f recordFields
	if json.Unmarshal(rec, &f) != nil {
		return ""
	}
	var text string
	if json.Unmarshal(f.HeadlineText, &text) != nil {
		return ""
	}
	return text
}

// Counts reports the number of records per year, in bucket order.
func Counts[V any](years *orderedmap.OrderedMap[string, []V]) []YearCount {
	var out []YearCount
	if years == nil {
		return out
	}
	for pair := years.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, YearCount{Year: pair.Key, Records: len(pair.Value)})
	}
	return out
}

// MonthCounts reports the number of records kept per year after regrouping.
func MonthCounts(buckets *types.MonthBuckets) []YearCount {
	var out []YearCount
	if buckets == nil {
		return out
	}
	for pair := buckets.Oldest(); pair != nil; pair = pair.Next() {
		n := 0
		for m := pair.Value.Oldest(); m != nil; m = m.Next() {
			n += len(m.Value)
		}
		out = append(out, YearCount{Year: pair.Key, Records: n})
	}
	return out
}

type YearCount struct {
	Year    string `json:"year"`
	Records int    `json:"records"`
}
