package policy

import "github.com/GaryBoone/GoStats/stats"

type LossStats struct {
	Count      int     `json:"count"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"stdDev"`
	Epsilon    float64 `json:"epsilon"`
	LearnSteps int     `json:"learnSteps"`
}

func NewLossStats(losses []float64, epsilon float64, learnSteps int) LossStats {
	s := LossStats{
		Count:      len(losses),
		Epsilon:    epsilon,
		LearnSteps: learnSteps,
	}
	if len(losses) == 0 {
		return s
	}

	s.Min = stats.StatsMin(losses)
	s.Max = stats.StatsMax(losses)
	s.Mean = stats.StatsMean(losses)
	s.StdDev = stats.StatsPopulationStandardDeviation(losses)
	return s
}
