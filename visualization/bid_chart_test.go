package visualization_test

import (
	"bytes"
	"time"

	"github.com/agentbid/auction/auctiontypes"
	. "github.com/agentbid/auction/visualization"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("WriteBidChart", func() {
	var auction auctiontypes.Auction
	var buffer *bytes.Buffer

	BeforeEach(func() {
		now := time.Unix(1700000000, 0)
		buffer = &bytes.Buffer{}
		auction = auctiontypes.Auction{
			Title:         "Vintage Lamp",
			StartingPrice: 100,
			Increment:     10,
			StartTime:     now,
			EndTime:       now.Add(time.Minute),
			Status:        auctiontypes.StatusActive,
			CurrentPrice:  150,
			Bids: []auctiontypes.Bid{
				{BidderID: "alpha_u1", BidderName: "Alpha Bot", Amount: 110, Timestamp: now.Add(4 * time.Second)},
				{BidderID: "beta_u2", BidderName: "Beta Bot", Amount: 150, Timestamp: now.Add(8 * time.Second)},
			},
		}
	})

	It("draws a complete svg document", func() {
		WriteBidChart(buffer, auction)

		Ω(buffer.String()).Should(ContainSubstring("<svg"))
		Ω(buffer.String()).Should(ContainSubstring("</svg>"))
		Ω(buffer.String()).Should(ContainSubstring("Vintage Lamp"))
		Ω(buffer.String()).Should(ContainSubstring("<polyline"))
		Ω(buffer.String()).Should(ContainSubstring("2 bids from 2 bidders"))
	})

	It("names the winner of completed auctions", func() {
		price := 150.0
		auction.Status = auctiontypes.StatusCompleted
		auction.WinnerName = "Beta Bot"
		auction.WinningPrice = &price

		WriteBidChart(buffer, auction)
		Ω(buffer.String()).Should(ContainSubstring("won by Beta Bot at 150.00"))
	})

	It("copes with auctions without bids", func() {
		auction.Bids = nil

		WriteBidChart(buffer, auction)
		Ω(buffer.String()).Should(ContainSubstring("no bids"))
		Ω(buffer.String()).ShouldNot(ContainSubstring("<polyline"))
	})
})

var _ = Describe("WriteTrainingReport", func() {
	It("plots every episode", func() {
		buffer := &bytes.Buffer{}
		WriteTrainingReport(buffer, "dqn1", []float64{1, 3, 2, 5})

		Ω(buffer.String()).Should(ContainSubstring("<polyline"))
		Ω(buffer.String()).Should(ContainSubstring("4 episodes"))
	})
})
