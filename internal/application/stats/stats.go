// Package stats summarizes result history.
package stats

import (
	"github.com/montanaflynn/stats"

	"github.com/arf/areacheck/internal/domain"
)

// Summary aggregates a history list.
type Summary struct {
	Total           int
	Hits            int
	Misses          int
	HitRate         float64
	MeanExecution   float64
	MedianExecution float64
	P95Execution    float64
	MaxExecution    float64
	ByRadius        map[float64]RadiusSummary
}

// RadiusSummary is the hit breakdown for one radius.
type RadiusSummary struct {
	Total int
	Hits  int
}

// Summarize computes hit rate and execution-time percentiles.
func Summarize(records []domain.ResultRecord) (Summary, error) {
	s := Summary{Total: len(records), ByRadius: map[float64]RadiusSummary{}}
	if len(records) == 0 {
		return s, nil
	}

	times := make(stats.Float64Data, 0, len(records))
	for _, rec := range records {
		rs := s.ByRadius[rec.R]
		rs.Total++
		if rec.Hit {
			s.Hits++
			rs.Hits++
		}
		s.ByRadius[rec.R] = rs
		times = append(times, rec.ExecutionTime)
	}
	s.Misses = s.Total - s.Hits
	s.HitRate = float64(s.Hits) / float64(s.Total) * 100

	var err error
	if s.MeanExecution, err = times.Mean(); err != nil {
		return s, err
	}
	if s.MedianExecution, err = times.Median(); err != nil {
		return s, err
	}
	if s.P95Execution, err = times.Percentile(95); err != nil {
		return s, err
	}
	if s.MaxExecution, err = times.Max(); err != nil {
		return s, err
	}
	return s, nil
}
