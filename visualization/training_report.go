package visualization

import (
	"fmt"
	"io"

	"github.com/GaryBoone/GoStats/stats"
	svg "github.com/ajstarks/svgo"
)

const ReportWidth = border*2 + plotWidth
const ReportHeight = headerHeight + border*2 + plotHeight + 60

// WriteTrainingReport plots the total reward of each training episode.
func WriteTrainingReport(w io.Writer, title string, rewards []float64) {
	s := svg.New(w)
	s.Start(ReportWidth, ReportHeight)
	s.Text(border, 36, title, "text-anchor:start;font-size:28px;"+font)

	s.Translate(border, headerHeight)
	s.Rect(0, 0, plotWidth, plotHeight, "fill:#f7f7f7")

	if len(rewards) > 0 {
		low, high := stats.StatsMin(rewards), stats.StatsMax(rewards)
		if high <= low {
			high = low + 1
		}

		xs := make([]int, len(rewards))
		ys := make([]int, len(rewards))
		for i, reward := range rewards {
			xs[i] = i * plotWidth / maxInt(len(rewards)-1, 1)
			ys[i] = plotHeight - border - int((reward-low)/(high-low)*float64(plotHeight-border*2))
		}
		s.Polyline(xs, ys, "fill:none;stroke:#333;stroke-width:1")

		s.Textlines(8, plotHeight+20, []string{
			fmt.Sprintf("%d episodes | reward %.2f ± %.2f", len(rewards), stats.StatsMean(rewards), stats.StatsPopulationStandardDeviation(rewards)),
			fmt.Sprintf("...%.2f - %.2f", low, high),
		}, 13, 16, "#333", "start")
	}

	s.Gend()
	s.End()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
