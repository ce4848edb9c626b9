package dataset

import (
	"sort"
	"strconv"

	"news-timeline-go/internal/types"
)

type Summary struct {
	TotalRecords  int            `json:"total_records"`
	ByCategory    map[string]int `json:"by_category"`
	ByYear        map[string]int `json:"by_year"`
	MeanSentiment float64        `json:"mean_sentiment"`
	Positive      int            `json:"positive"`
	Negative      int            `json:"negative"`
	Neutral       int            `json:"neutral"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Summarize computes the value counts reported at the end of Stage 1.
func Summarize(headlines []types.Headline) Summary {
	s := Summary{
		TotalRecords: len(headlines),
		ByCategory:   map[string]int{},
		ByYear:       map[string]int{},
	}
	total := 0.0
	for _, h := range headlines {
		s.ByCategory[h.Category]++
		s.ByYear[strconv.Itoa(h.PublishDate.Year())]++
		total += h.NewsSentiment
		switch {
		case h.NewsSentiment > 0:
			s.Positive++
		case h.NewsSentiment < 0:
			s.Negative++
		default:
			s.Neutral++
		}
	}
	if len(headlines) > 0 {
		s.MeanSentiment = total / float64(len(headlines))
	}
	return s
}

// CategoryCounts lists categories by descending count; ties keep enumeration order.
func (s Summary) CategoryCounts() []CategoryCount {
	out := make([]CategoryCount, 0, len(s.ByCategory))
	for _, c := range types.Categories {
		if n := s.ByCategory[c]; n > 0 {
			out = append(out, CategoryCount{Category: c, Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
