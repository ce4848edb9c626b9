package types

import (
	"encoding/json"
	"fmt"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DateLayout is the canonical rendering of publish_date in both output documents.
const DateLayout = "2006-01-02"

// FallbackCategory is assigned when a headline is empty or the classifier fails.
const FallbackCategory = "Socio-Cultural"

// Categories is the closed set of headline categories, in enumeration order.
var Categories = []string{
	"Entertainment",
	"Education",
	"Politics",
	"Technology",
	"Socio-Cultural",
	"Economy",
	"Sports",
	"Crime",
}

// RawRow is one input table row before validation.
type RawRow struct {
	Line         int
	PublishDate  string
	HeadlineText string
}

// Headline is a validated row carried through enrichment.
type Headline struct {
	PublishDate   time.Time
	HeadlineText  string
	NewsSentiment float64
	Category      string
}

// Record returns the serialized form of h.
func (h Headline) Record() Record {
	return Record{
		PublishDate:   h.PublishDate.Format(DateLayout),
		Category:      h.Category,
		NewsSentiment: h.NewsSentiment,
		HeadlineText:  h.HeadlineText,
	}
}

// Record is the per-headline object written to both JSON documents.
type Record struct {
	PublishDate   string  `json:"publish_date"`
	Category      string  `json:"category"`
	NewsSentiment float64 `json:"news_sentiment"`
	HeadlineText  string  `json:"headline_text"`
}

// RecordDateLayout reads publish_date back in Stage 2. Month and day may be
// one or two digits; surrounding whitespace is rejected.
const RecordDateLayout = "2006-1-2"

// ParseRecordDate parses a publish_date value from a year document.
func ParseRecordDate(s string) (time.Time, error) {
	d, err := time.Parse(RecordDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse publish_date %q: %w", s, err)
	}
	return d, nil
}

// SentimentResult is the raw answer of a sentiment model.
type SentimentResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// YearBuckets maps a year ("2001") to its headlines in chronological order.
type YearBuckets = orderedmap.OrderedMap[string, []Record]

// RawYearBuckets is a year document read back from disk. Each record is kept
// as its original JSON object so Stage 2 passes it through untouched.
type RawYearBuckets = orderedmap.OrderedMap[string, []json.RawMessage]

// MonthRecords maps a month ("1".."12") to its records.
type MonthRecords = orderedmap.OrderedMap[string, []json.RawMessage]

// MonthBuckets maps a year to its month buckets.
type MonthBuckets = orderedmap.OrderedMap[string, *MonthRecords]

func NewYearBuckets() *YearBuckets {
	return orderedmap.New[string, []Record]()
}

func NewRawYearBuckets() *RawYearBuckets {
	return orderedmap.New[string, []json.RawMessage]()
}

func NewMonthRecords() *MonthRecords {
	return orderedmap.New[string, []json.RawMessage]()
}

func NewMonthBuckets() *MonthBuckets {
	return orderedmap.New[string, *MonthRecords]()
}
