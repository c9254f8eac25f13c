package core

import "time"

const (
	latencyWindow = 100
	// Rough per-token cost estimate for gpt-4o-mini class models.
	costPerToken = 0.000003
)

// Stats accumulates per-room counters and a bounded latency window.
type Stats struct {
	StartTime     time.Time
	TotalMessages int
	TotalTokens   int

	latencies []time.Duration
}

func NewStats(start time.Time) *Stats {
	return &Stats{StartTime: start}
}

// Record adds one generated message: token count and its end-to-end latency.
// The latency window keeps the most recent 100 samples.
func (s *Stats) Record(tokens int, latency time.Duration) {
	s.TotalMessages++
	s.TotalTokens += tokens
	s.latencies = append(s.latencies, latency)
	if len(s.latencies) > latencyWindow {
		s.latencies = s.latencies[len(s.latencies)-latencyWindow:]
	}
}

func (s *Stats) AverageLatency() time.Duration {
	if len(s.latencies) == 0 {
		return 0
	}
	var sum time.Duration
	for _, l := range s.latencies {
		sum += l
	}
	return sum / time.Duration(len(s.latencies))
}

// MessageRate is messages per minute since StartTime.
func (s *Stats) MessageRate(now time.Time) float64 {
	if s.TotalMessages == 0 {
		return 0
	}
	mins := now.Sub(s.StartTime).Minutes()
	if mins <= 0 {
		return 0
	}
	return float64(s.TotalMessages) / mins
}

// EstimatedCost approximates spend in dollars, rounded to cents.
func (s *Stats) EstimatedCost() float64 {
	cents := float64(s.TotalTokens) * costPerToken * 100
	return float64(int64(cents+0.5)) / 100
}
