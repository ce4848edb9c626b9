package dataset

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"news-timeline-go/internal/types"
)

// RawDateLayout is the only layout accepted for publish_date in the input table.
const RawDateLayout = "20060102"

var ErrInvalidDate = errors.New("invalid publish_date")

// ParsePublishDate parses an 8-digit YYYYMMDD token into a naive calendar date.
func ParsePublishDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if len(s) != len(RawDateLayout) || strings.IndexFunc(s, notDigit) >= 0 {
		return time.Time{}, fmt.Errorf("%w: %q is not an 8-digit YYYYMMDD value", ErrInvalidDate, raw)
	}
	d, err := time.Parse(RawDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, raw, err)
	}
	return d, nil
}

func notDigit(r rune) bool { return r < '0' || r > '9' }

// NormalizeDates converts raw rows into headlines, dropping (and logging) any
// row whose date does not parse. Sentiment and category are left unset.
func NormalizeDates(rows []types.RawRow, log *logrus.Entry) []types.Headline {
	out := make([]types.Headline, 0, len(rows))
	for _, r := range rows {
		d, err := ParsePublishDate(r.PublishDate)
		if err != nil {
			log.WithFields(logrus.Fields{
				"line":     r.Line,
				"headline": Truncate(r.HeadlineText, 50),
			}).WithField("error", err.Error()).Warn("dropping row with unparseable publish_date")
			continue
		}
		out = append(out, types.Headline{PublishDate: d, HeadlineText: r.HeadlineText})
	}
	return out
}

// Truncate shortens s to at most max runes for log output.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
