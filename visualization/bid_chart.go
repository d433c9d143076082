package visualization

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/agentbid/auction/auctiontypes"
	svg "github.com/ajstarks/svgo"
)

const border = 5

const headerHeight = 60

const plotWidth = 600
const plotHeight = 300

const graphWidth = 300
const graphTextX = 50
const graphBinX = 55
const binHeight = 14
const binSpacing = 2
const maxBinLength = graphWidth - graphBinX

const ChartWidth = border*3 + plotWidth + graphWidth
const ChartHeight = headerHeight + border*2 + plotHeight

const font = "font-family:Helvetica Neue"

// WriteBidChart renders the auction's price history next to a histogram of
// its raise sizes, measured in increments.
func WriteBidChart(w io.Writer, auction auctiontypes.Auction) {
	s := svg.New(w)
	s.Start(ChartWidth, ChartHeight)

	s.Text(border, 36, auction.Title, "text-anchor:start;font-size:28px;"+font)
	s.Text(ChartWidth-border, 36, statusLine(auction), "text-anchor:end;font-size:14px;fill:#666;"+font)

	s.Translate(border, headerHeight)
	drawPriceHistory(s, auction)
	s.Gend()

	s.Translate(border*2+plotWidth, headerHeight)
	y := drawHistogram(s, raiseBins(auction), raiseLabels)
	drawText(s, auction, y+binSpacing*4)
	s.Gend()

	s.End()
}

func statusLine(auction auctiontypes.Auction) string {
	switch auction.Status {
	case auctiontypes.StatusCompleted:
		price := 0.0
		if auction.WinningPrice != nil {
			price = *auction.WinningPrice
		}
		return fmt.Sprintf("won by %s at %.2f", auction.WinnerName, price)
	default:
		return fmt.Sprintf("%s at %.2f", auction.Status, auction.CurrentPrice)
	}
}

func drawPriceHistory(s *svg.SVG, auction auctiontypes.Auction) {
	s.Rect(0, 0, plotWidth, plotHeight, "fill:#f7f7f7")

	if len(auction.Bids) == 0 {
		s.Text(plotWidth/2, plotHeight/2, "no bids", "text-anchor:middle;font-size:16px;fill:#999;"+font)
		return
	}

	start := auction.StartTime
	span := auction.EndTime.Sub(start).Seconds()
	if span <= 0 {
		span = 1
	}
	low := auction.StartingPrice
	high := auction.Bids[len(auction.Bids)-1].Amount
	if high <= low {
		high = low + 1
	}

	xFor := func(seconds float64) int {
		return int(seconds / span * float64(plotWidth))
	}
	yFor := func(price float64) int {
		return plotHeight - int((price-low)/(high-low)*float64(plotHeight-border*2)) - border
	}

	xs := []int{0}
	ys := []int{yFor(low)}
	for _, bid := range auction.Bids {
		x := xFor(bid.Timestamp.Sub(start).Seconds())
		xs = append(xs, x, x)
		ys = append(ys, ys[len(ys)-1], yFor(bid.Amount))
	}
	s.Polyline(xs, ys, "fill:none;stroke:#333;stroke-width:2")

	for _, bid := range auction.Bids {
		x := xFor(bid.Timestamp.Sub(start).Seconds())
		s.Circle(x, yFor(bid.Amount), 3, bidderStyle(bid.BidderID))
	}

	s.Text(border, border+12, fmt.Sprintf("%.2f", high), "text-anchor:start;font-size:10px;"+font)
	s.Text(border, plotHeight-border, fmt.Sprintf("%.2f", low), "text-anchor:start;font-size:10px;"+font)
}

var raiseBoundaries = []float64{0, 1, 2, 3, 5, 10, 1e9}
var raiseLabels = []string{"1 inc", "2 inc", "3 inc", "4-5 inc", "6-10 inc", ">10 inc"}

func raiseBins(auction auctiontypes.Auction) []float64 {
	if auction.Increment <= 0 {
		return make([]float64, len(raiseLabels))
	}

	raises := []float64{}
	previous := auction.StartingPrice
	for _, bid := range auction.Bids {
		raises = append(raises, (bid.Amount-previous)/auction.Increment)
		previous = bid.Amount
	}
	sort.Sort(sort.Float64Slice(raises))

	return binUp(raiseBoundaries, raises)
}

func drawText(s *svg.SVG, auction auctiontypes.Auction, y int) {
	amounts := []float64{}
	bidders := map[string]int{}
	for _, bid := range auction.Bids {
		amounts = append(amounts, bid.Amount)
		bidders[bid.BidderName]++
	}

	lines := []string{
		fmt.Sprintf("%d bids from %d bidders", len(auction.Bids), len(bidders)),
		fmt.Sprintf("start %.2f | increment %.2f", auction.StartingPrice, auction.Increment),
	}
	if len(amounts) > 1 {
		lines = append(lines, fmt.Sprintf("%.1f ± %.1f | %.0f - %.0f",
			stats.StatsMean(amounts), stats.StatsPopulationStandardDeviation(amounts),
			stats.StatsMin(amounts), stats.StatsMax(amounts)))
	}

	names := make([]string, 0, len(bidders))
	for name := range bidders {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("...%s: %d", name, bidders[name]))
	}

	s.Gstyle(font)
	s.Textlines(8, y+8, lines, 13, 16, "#333", "start")
	s.Gend()
}

func drawHistogram(s *svg.SVG, bins []float64, labels []string) int {
	y := 0
	for i, percentage := range bins {
		s.Rect(graphBinX, y, maxBinLength, binHeight, `fill:#eee`)
		s.Text(graphTextX, y+binHeight-4, labels[i], "text-anchor:end;font-size:10px;"+font)
		if percentage > 0 {
			s.Rect(graphBinX, y, int(percentage*float64(maxBinLength)), binHeight, `fill:#333`)
			s.Text(graphBinX+binSpacing, y+binHeight-4, fmt.Sprintf("%.1f%%", percentage*100.0), "text-anchor:start;font-size:10px;fill:#fff;"+font)
		}
		y += binHeight + binSpacing
	}

	return y
}

func binUp(binBoundaries []float64, sortedData []float64) []float64 {
	bins := make([]float64, len(binBoundaries)-1)
	if len(sortedData) == 0 {
		return bins
	}

	currentBin := 0
	for _, d := range sortedData {
		for currentBin < len(bins)-1 && binBoundaries[currentBin+1] < d {
			currentBin += 1
		}
		bins[currentBin] += 1
	}

	for i := range bins {
		bins[i] = (bins[i] / float64(len(sortedData)))
	}

	return bins
}

func bidderStyle(bidderID string) string {
	color := "#333"
	switch {
	case strings.HasPrefix(bidderID, "alpha_"):
		color = "#d9534f"
	case strings.HasPrefix(bidderID, "beta_"):
		color = "#5bc0de"
	case strings.HasPrefix(bidderID, "gamma_"):
		color = "#5cb85c"
	}
	return "fill:" + color + ";stroke:none"
}
