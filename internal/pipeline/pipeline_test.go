package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"news-timeline-go/internal/dataset"
	"news-timeline-go/internal/extractor"
	"news-timeline-go/internal/logger"
	"news-timeline-go/internal/types"
)

const sampleCSV = "publish_date,headline_text,source\n" +
	"20030201,Stock markets rally amid tech boom,wire\n" +
	"2003020,bad date row,wire\n" +
	"20010115,Police arrest man over fraud,wire\n" +
	"20031010,,wire\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func runEnrich(t *testing.T, dir, csv string, backend extractor.Backend) (EnrichResult, string) {
	t.Helper()
	in := writeFile(t, dir, "news.csv", csv)
	out := filepath.Join(dir, "years.json")
	res, err := Enrich(context.Background(), EnrichOptions{InputPath: in, OutputPath: out, Indent: 4}, backend, logger.Discard())
	require.NoError(t, err)
	return res, out
}

func TestEnrichEndToEnd(t *testing.T) {
	dir := t.TempDir()
	res, out := runEnrich(t, dir, sampleCSV, extractor.Mock{})

	require.Equal(t, 4, res.RowsLoaded)
	require.Equal(t, 1, res.InvalidDates)
	require.Equal(t, 3, res.Stats.Output)
	require.Equal(t, 1, res.Stats.EmptyText)
	require.Len(t, res.Years, 2)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw),
		"{\n    \"2001\": [\n        {\n            \"publish_date\": \"2001-01-15\",\n"), string(raw))

	years := types.NewYearBuckets()
	require.NoError(t, json.Unmarshal(raw, years))

	y2001, _ := years.Get("2001")
	require.Equal(t, []types.Record{{
		PublishDate: "2001-01-15", Category: "Crime", NewsSentiment: -1, HeadlineText: "Police arrest man over fraud",
	}}, y2001)

	y2003, _ := years.Get("2003")
	require.Len(t, y2003, 2)
	require.Equal(t, "Economy", y2003[0].Category)
	require.InDelta(t, 1.0, y2003[0].NewsSentiment, 1e-9)
	require.Equal(t, "2003-10-10", y2003[1].PublishDate)
	require.Equal(t, types.FallbackCategory, y2003[1].Category)
	require.Equal(t, 0.0, y2003[1].NewsSentiment)
}

func TestEnrichThenRegroup(t *testing.T) {
	dir := t.TempDir()
	_, yearly := runEnrich(t, dir, sampleCSV, extractor.Mock{})
	monthly := filepath.Join(dir, "months.json")

	res, err := Regroup(context.Background(), RegroupOptions{InputPath: yearly, OutputPath: monthly, Indent: 4}, logger.Discard())
	require.NoError(t, err)
	require.Equal(t, 3, res.RecordsIn)
	require.Equal(t, 3, res.RecordsOut)

	raw, err := os.ReadFile(monthly)
	require.NoError(t, err)
	months := types.NewMonthBuckets()
	require.NoError(t, json.Unmarshal(raw, months))

	var keys []string
	for y := months.Oldest(); y != nil; y = y.Next() {
		for m := y.Value.Oldest(); m != nil; m = m.Next() {
			keys = append(keys, y.Key+"/"+m.Key)
		}
	}
	require.Equal(t, []string{"2001/1", "2003/2", "2003/10"}, keys)
}

func TestRegroupIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	_, yearly := runEnrich(t, dir, sampleCSV, extractor.Mock{})
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")

	_, err := Regroup(context.Background(), RegroupOptions{InputPath: yearly, OutputPath: a, Indent: 4}, logger.Discard())
	require.NoError(t, err)
	_, err = Regroup(context.Background(), RegroupOptions{InputPath: yearly, OutputPath: b, Indent: 4}, logger.Discard())
	require.NoError(t, err)

	first, err := os.ReadFile(a)
	require.NoError(t, err)
	second, err := os.ReadFile(b)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRegroupSkipsBadDates(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "years.json", `{
    "2004": [
        {"publish_date": "2004-13-01", "category": "Crime", "news_sentiment": 0, "headline_text": "bad month"},
        {"publish_date": "2004-06-30", "category": "Sports", "news_sentiment": 0.5, "headline_text": "good"}
    ]
}`)
	out := filepath.Join(dir, "months.json")

	res, err := Regroup(context.Background(), RegroupOptions{InputPath: in, OutputPath: out}, logger.Discard())
	require.NoError(t, err)
	require.Equal(t, 2, res.RecordsIn)
	require.Equal(t, 1, res.RecordsOut)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t,
		`{"2004":{"6":[{"publish_date":"2004-06-30","category":"Sports","news_sentiment":0.5,"headline_text":"good"}]}}`+"\n",
		string(raw))
}

func TestRegroupPassesRecordsThrough(t *testing.T) {
	dir := t.TempDir()
	rec := `{"publish_date":"2001-02-05","category":"Crime","news_sentiment":"0.5","headline_text":null,"source":"wire & co"}`
	in := writeFile(t, dir, "years.json", "{\n    \"2001\": [\n        "+rec+"\n    ]\n}\n")
	out := filepath.Join(dir, "months.json")

	res, err := Regroup(context.Background(), RegroupOptions{InputPath: in, OutputPath: out}, logger.Discard())
	require.NoError(t, err)
	require.Equal(t, 1, res.RecordsOut)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, `{"2001":{"2":[`+rec+`]}}`+"\n", string(raw))
}

func TestRegroupRejectsInvalidInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "months.json")

	for name, content := range map[string]string{
		"truncated": `{"2001": [`,
		"array":     `[]`,
		"empty":     ``,
	} {
		t.Run(name, func(t *testing.T) {
			in := writeFile(t, dir, name+".json", content)
			_, err := Regroup(context.Background(), RegroupOptions{InputPath: in, OutputPath: out}, logger.Discard())
			require.ErrorIs(t, err, ErrInvalidJSON)
			require.NoFileExists(t, out)
		})
	}
}

func TestMissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.json")

	_, err := Enrich(context.Background(), EnrichOptions{InputPath: filepath.Join(dir, "nope.csv"), OutputPath: out}, extractor.Mock{}, logger.Discard())
	require.ErrorIs(t, err, ErrInputNotFound)

	_, err = Regroup(context.Background(), RegroupOptions{InputPath: filepath.Join(dir, "nope.json"), OutputPath: out}, logger.Discard())
	require.ErrorIs(t, err, ErrInputNotFound)
	require.NoFileExists(t, out)
}

func TestEnrichMissingColumnLeavesOutputUntouched(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "news.csv", "date,headline_text\n20010101,x\n")
	out := writeFile(t, dir, "years.json", "previous")

	_, err := Enrich(context.Background(), EnrichOptions{InputPath: in, OutputPath: out, Indent: 4}, extractor.Mock{}, logger.Discard())
	require.ErrorIs(t, err, dataset.ErrMissingColumn)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "previous", string(raw))
}

func TestEnrichHeaderOnlyWritesEmptyObject(t *testing.T) {
	dir := t.TempDir()
	res, out := runEnrich(t, dir, "publish_date,headline_text\n", extractor.Mock{})
	require.Equal(t, 0, res.Stats.Output)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "{}\n", string(raw))
}

type failingBackend struct{ calls int }

func (f *failingBackend) Name() string { return "failing" }

func (f *failingBackend) Score(context.Context, string) (types.SentimentResult, error) {
	f.calls++
	return types.SentimentResult{}, errors.New("model unavailable")
}

func (f *failingBackend) Classify(context.Context, string, []string) (string, error) {
	f.calls++
	return "", errors.New("model unavailable")
}

func TestEnrichAbsorbsModelFailures(t *testing.T) {
	dir := t.TempDir()
	backend := &failingBackend{}
	res, out := runEnrich(t, dir, sampleCSV, backend)

	// two non-empty valid headlines, one call per job each
	require.Equal(t, 4, backend.calls)
	require.Equal(t, 2, res.Stats.SentimentFailures)
	require.Equal(t, 2, res.Stats.ClassifierFailures)
	require.Equal(t, 3, res.Stats.Output)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	years := types.NewYearBuckets()
	require.NoError(t, json.Unmarshal(raw, years))
	for p := years.Oldest(); p != nil; p = p.Next() {
		for _, r := range p.Value {
			require.Equal(t, types.FallbackCategory, r.Category)
			require.Equal(t, 0.0, r.NewsSentiment)
		}
	}
}

func TestEncodeJSONKeepsTextLiteral(t *testing.T) {
	rec := types.Record{PublishDate: "2001-01-01", Category: "Economy", HeadlineText: "AT&T <b> Café \\u003c"}

	b, err := EncodeJSON(rec, 0)
	require.NoError(t, err)
	require.Equal(t,
		`{"publish_date":"2001-01-01","category":"Economy","news_sentiment":0,"headline_text":"AT&T <b> Café \\u003c"}`,
		string(b))

	var back types.Record
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, rec, back)

	indented, err := EncodeJSON(map[string]int{"a": 1}, 4)
	require.NoError(t, err)
	require.Equal(t, "{\n    \"a\": 1\n}", string(indented))
}
