package auction_http_handlers_test

import (
	"bytes"
	"context"
	"net/http"

	"github.com/agentbid/auction/communication/http/routes"
	"github.com/tedsuo/rata"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var lampSpec = map[string]interface{}{
	"title":         "Vintage Lamp",
	"startingPrice": 100,
	"increment":     10,
	"duration":      60,
}

var _ = Describe("CreateAuction", func() {
	It("creates a pending auction for the caller", func() {
		status, body := Request(routes.CreateAuction, nil, JSONReaderFor(lampSpec), validToken)
		Ω(status).Should(Equal(http.StatusCreated))

		auction := DecodedBody(body)["auction"].(map[string]interface{})
		Ω(auction["status"]).Should(Equal("pending"))
		Ω(auction["currentPrice"]).Should(BeNumerically("==", 100))
		Ω(auction["createdBy"]).Should(Equal("u1"))
	})

	It("fills in the default increment and duration", func() {
		status, body := Request(routes.CreateAuction, nil, JSONReaderFor(map[string]interface{}{"title": "Chair"}), validToken)
		Ω(status).Should(Equal(http.StatusCreated))

		auction := DecodedBody(body)["auction"].(map[string]interface{})
		Ω(auction["increment"]).Should(BeNumerically("==", 1))
		Ω(auction["currentPrice"]).Should(BeNumerically("==", 0))
	})

	It("rejects invalid auctions", func() {
		status, body := Request(routes.CreateAuction, nil, JSONReaderFor(map[string]interface{}{"title": "Chair", "increment": 0}), validToken)
		Ω(status).Should(Equal(http.StatusBadRequest))
		Ω(string(body)).Should(ContainSubstring("increment"))
	})

	It("rejects invalid json", func() {
		status, body := Request(routes.CreateAuction, nil, bytes.NewBufferString("∆"), validToken)
		Ω(status).Should(Equal(http.StatusBadRequest))
		Ω(string(body)).Should(ContainSubstring("invalid json"))
	})

	It("requires credentials", func() {
		status, _ := Request(routes.CreateAuction, nil, JSONReaderFor(lampSpec), "")
		Ω(status).Should(Equal(http.StatusUnauthorized))
		Ω(verifier.VerifyCallCount()).Should(BeZero())

		status, _ = Request(routes.CreateAuction, nil, JSONReaderFor(lampSpec), "bad-token")
		Ω(status).Should(Equal(http.StatusUnauthorized))
	})
})

var _ = Describe("ListAuctions", func() {
	It("lists auctions without credentials", func() {
		CreateAuction(lampSpec)
		CreateAuction(lampSpec)

		status, body := Request(routes.ListAuctions, nil, nil, "")
		Ω(status).Should(Equal(http.StatusOK))
		Ω(DecodedBody(body)["auctions"]).Should(HaveLen(2))
	})
})

var _ = Describe("StartAuction", func() {
	var auctionID string

	BeforeEach(func() {
		auctionID = CreateAuction(lampSpec)
	})

	It("activates the auction with the caller's agent", func() {
		status, body := Request(routes.StartAuction, nil, JSONReaderFor(map[string]string{
			"auction_id":     auctionID,
			"selected_agent": "alpha_u1",
		}), validToken)
		Ω(status).Should(Equal(http.StatusOK))

		auction := DecodedBody(body)["auction"].(map[string]interface{})
		Ω(auction["status"]).Should(Equal("active"))
		Ω(auction["participants"]).Should(Equal([]interface{}{"u1"}))
		Ω(scheduler.IsRunning(auctionID)).Should(BeTrue())
	})

	It("requires the auction and agent", func() {
		status, body := Request(routes.StartAuction, nil, JSONReaderFor(map[string]string{"auction_id": auctionID}), validToken)
		Ω(status).Should(Equal(http.StatusBadRequest))
		Ω(string(body)).Should(ContainSubstring("Missing parameters"))
	})

	It("returns 404 for unknown auctions", func() {
		status, _ := Request(routes.StartAuction, nil, JSONReaderFor(map[string]string{
			"auction_id":     "nope",
			"selected_agent": "alpha_u1",
		}), validToken)
		Ω(status).Should(Equal(http.StatusNotFound))
	})

	It("returns 404 for agents the caller does not own", func() {
		status, _ := Request(routes.StartAuction, nil, JSONReaderFor(map[string]string{
			"auction_id":     auctionID,
			"selected_agent": "alpha_u2",
		}), validToken)
		Ω(status).Should(Equal(http.StatusNotFound))
	})

	It("requires credentials", func() {
		status, _ := Request(routes.StartAuction, nil, JSONReaderFor(map[string]string{}), "")
		Ω(status).Should(Equal(http.StatusUnauthorized))
	})
})

var _ = Describe("SimulateBid", func() {
	var auctionID string

	BeforeEach(func() {
		auctionID = CreateAuction(lampSpec)
	})

	It("reports when no bid was placed", func() {
		status, body := Request(routes.SimulateBid, nil, JSONReaderFor(map[string]string{"auction_id": auctionID}), validToken)
		Ω(status).Should(Equal(http.StatusOK))
		Ω(body).Should(MatchJSON(`{"success":false,"message":"No bid was placed"}`))
	})

	It("places a bid on an active auction", func() {
		_, _, err := reg.Activate(context.Background(), auctionID, "u1", "alpha_u1")
		Ω(err).ShouldNot(HaveOccurred())

		status, body := Request(routes.SimulateBid, nil, JSONReaderFor(map[string]string{"auction_id": auctionID}), validToken)
		Ω(status).Should(Equal(http.StatusOK))

		decoded := DecodedBody(body)
		Ω(decoded["success"]).Should(BeTrue())
		Ω(decoded["bid"]).Should(HaveKeyWithValue("amount", BeNumerically("==", 120)))
		Ω(decoded["auction"]).Should(HaveKeyWithValue("currentPrice", BeNumerically("==", 120)))
	})

	It("requires an auction id", func() {
		status, _ := Request(routes.SimulateBid, nil, JSONReaderFor(map[string]string{}), validToken)
		Ω(status).Should(Equal(http.StatusBadRequest))
	})

	It("returns 404 for unknown auctions", func() {
		status, _ := Request(routes.SimulateBid, nil, JSONReaderFor(map[string]string{"auction_id": "nope"}), validToken)
		Ω(status).Should(Equal(http.StatusNotFound))
	})
})

var _ = Describe("AuctionChart", func() {
	It("renders the auction as svg", func() {
		auctionID := CreateAuction(lampSpec)

		status, body := Request(routes.AuctionChart, rata.Params{"auction_id": auctionID}, nil, "")
		Ω(status).Should(Equal(http.StatusOK))
		Ω(string(body)).Should(ContainSubstring("Vintage Lamp"))
	})

	It("returns 404 for unknown auctions", func() {
		status, _ := Request(routes.AuctionChart, rata.Params{"auction_id": "nope"}, nil, "")
		Ω(status).Should(Equal(http.StatusNotFound))
	})
})
