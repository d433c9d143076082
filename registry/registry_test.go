package registry_test

import (
	"context"
	"errors"
	"math"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/agentbid/auction/auctiontypes"
	"github.com/agentbid/auction/auctiontypes/fakes"
	. "github.com/agentbid/auction/registry"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Registry", func() {
	var (
		ctx      context.Context
		clock    *fakeclock.FakeClock
		store    *fakes.FakeAuctionStore
		notifier *fakes.FakeNotifier
		book     *AgentBook
		reg      *Registry
		spec     auctiontypes.AuctionSpec
	)

	BeforeEach(func() {
		ctx = context.Background()
		clock = fakeclock.NewFakeClock(time.Unix(1700000000, 0))
		store = &fakes.FakeAuctionStore{}
		notifier = &fakes.FakeNotifier{}
		book = NewAgentBook()
		reg = New(logger, clock, store, notifier, book)

		spec = auctiontypes.AuctionSpec{
			Title:         "Vintage Lamp",
			StartingPrice: 100,
			Increment:     10,
			Duration:      60,
		}
	})

	Describe("Create", func() {
		It("creates a pending auction at the starting price", func() {
			auction, err := reg.Create(ctx, spec, "u1")
			Ω(err).ShouldNot(HaveOccurred())

			Ω(auction.ID).ShouldNot(BeEmpty())
			Ω(auction.Status).Should(Equal(auctiontypes.StatusPending))
			Ω(auction.CurrentPrice).Should(Equal(100.0))
			Ω(auction.StartTime).Should(Equal(clock.Now()))
			Ω(auction.EndTime).Should(Equal(clock.Now().Add(time.Minute)))
			Ω(auction.CreatedBy).Should(Equal("u1"))
			Ω(auction.Bids).Should(BeEmpty())
		})

		It("keeps the end after the start for the longest allowed duration", func() {
			spec.Duration = auctiontypes.MaxDurationSeconds

			auction, err := reg.Create(ctx, spec, "u1")
			Ω(err).ShouldNot(HaveOccurred())
			Ω(auction.EndTime.Before(auction.StartTime)).Should(BeFalse())
		})

		It("persists the new auction", func() {
			auction, _ := reg.Create(ctx, spec, "u1")

			Ω(store.InsertAuctionCallCount()).Should(Equal(1))
			_, persisted := store.InsertAuctionArgsForCall(0)
			Ω(persisted).Should(Equal(auction))
		})

		It("still creates the auction when persisting fails", func() {
			store.InsertAuctionReturns(errors.New("db down"))

			auction, err := reg.Create(ctx, spec, "u1")
			Ω(err).ShouldNot(HaveOccurred())

			_, err = reg.Get(ctx, auction.ID)
			Ω(err).ShouldNot(HaveOccurred())
		})

		DescribeTable("rejecting invalid specs",
			func(mutate func(*auctiontypes.AuctionSpec), field string) {
				mutate(&spec)
				_, err := reg.Create(ctx, spec, "u1")

				var validationErr auctiontypes.ValidationError
				Ω(errors.As(err, &validationErr)).Should(BeTrue())
				Ω(validationErr.Field).Should(Equal(field))
				Ω(reg.List(ctx)).Should(BeEmpty())
			},
			Entry("empty title", func(s *auctiontypes.AuctionSpec) { s.Title = "" }, "title"),
			Entry("zero increment", func(s *auctiontypes.AuctionSpec) { s.Increment = 0 }, "increment"),
			Entry("zero duration", func(s *auctiontypes.AuctionSpec) { s.Duration = 0 }, "duration"),
			Entry("duration past the time.Duration range", func(s *auctiontypes.AuctionSpec) { s.Duration = 1e11 }, "duration"),
			Entry("infinite duration", func(s *auctiontypes.AuctionSpec) { s.Duration = math.Inf(1) }, "duration"),
			Entry("NaN duration", func(s *auctiontypes.AuctionSpec) { s.Duration = math.NaN() }, "duration"),
			Entry("negative starting price", func(s *auctiontypes.AuctionSpec) { s.StartingPrice = -1 }, "startingPrice"),
		)
	})

	Describe("Get", func() {
		It("returns not found for unknown ids", func() {
			_, err := reg.Get(ctx, "nope")
			Ω(err).Should(MatchError(auctiontypes.ErrNotFound))
		})

		It("completes an active auction whose time is up", func() {
			auction, _ := reg.Create(ctx, spec, "u1")
			_, _, err := reg.Activate(ctx, auction.ID, "u1", "alpha_u1")
			Ω(err).ShouldNot(HaveOccurred())

			clock.Increment(61 * time.Second)

			fetched, err := reg.Get(ctx, auction.ID)
			Ω(err).ShouldNot(HaveOccurred())
			Ω(fetched.Status).Should(Equal(auctiontypes.StatusCompleted))
		})

		It("leaves a pending auction alone after its end time", func() {
			auction, _ := reg.Create(ctx, spec, "u1")
			clock.Increment(2 * time.Minute)

			fetched, _ := reg.Get(ctx, auction.ID)
			Ω(fetched.Status).Should(Equal(auctiontypes.StatusPending))
		})

		It("hands out snapshots", func() {
			auction, _ := reg.Create(ctx, spec, "u1")
			fetched, _ := reg.Get(ctx, auction.ID)
			fetched.Participants = append(fetched.Participants, "intruder")

			again, _ := reg.Get(ctx, auction.ID)
			Ω(again.Participants).Should(BeEmpty())
		})
	})

	Describe("List", func() {
		It("returns auctions in creation order and completes expired ones", func() {
			first, _ := reg.Create(ctx, spec, "u1")
			spec.Duration = 600
			second, _ := reg.Create(ctx, spec, "u1")

			reg.Activate(ctx, first.ID, "u1", "alpha_u1")
			reg.Activate(ctx, second.ID, "u1", "alpha_u1")
			clock.Increment(2 * time.Minute)

			auctions := reg.List(ctx)
			Ω(auctions).Should(HaveLen(2))
			Ω(auctions[0].ID).Should(Equal(first.ID))
			Ω(auctions[0].Status).Should(Equal(auctiontypes.StatusCompleted))
			Ω(auctions[1].ID).Should(Equal(second.ID))
			Ω(auctions[1].Status).Should(Equal(auctiontypes.StatusActive))
		})
	})

	Describe("Activate", func() {
		var auction auctiontypes.Auction

		BeforeEach(func() {
			auction, _ = reg.Create(ctx, spec, "u1")
			clock.Increment(5 * time.Second)
		})

		It("activates a pending auction and resets its start time", func() {
			activated, running, err := reg.Activate(ctx, auction.ID, "u2", "beta_u2")
			Ω(err).ShouldNot(HaveOccurred())

			Ω(running).Should(BeTrue())
			Ω(activated.Status).Should(Equal(auctiontypes.StatusActive))
			Ω(activated.StartTime).Should(Equal(clock.Now()))
			Ω(activated.EndTime).Should(Equal(auction.EndTime))
			Ω(activated.Participants).Should(Equal([]string{"u2"}))
			Ω(activated.SelectedAgents).Should(Equal(map[string]string{"u2": "beta_u2"}))
		})

		It("creates the user's agents on first reference", func() {
			reg.Activate(ctx, auction.ID, "u2", "beta_u2")

			agent, ok := book.Lookup("gamma_u2")
			Ω(ok).Should(BeTrue())
			Ω(agent.Budget).Should(Equal(15000.0))
		})

		It("raises the end time when it has already passed", func() {
			clock.Increment(10 * time.Minute)

			activated, _, err := reg.Activate(ctx, auction.ID, "u2", "beta_u2")
			Ω(err).ShouldNot(HaveOccurred())
			Ω(activated.EndTime).Should(Equal(activated.StartTime))
		})

		It("only updates the selection on later starts", func() {
			first, _, _ := reg.Activate(ctx, auction.ID, "u2", "beta_u2")
			clock.Increment(time.Second)

			second, running, err := reg.Activate(ctx, auction.ID, "u2", "alpha_u2")
			Ω(err).ShouldNot(HaveOccurred())
			Ω(running).Should(BeTrue())
			Ω(second.StartTime).Should(Equal(first.StartTime))
			Ω(second.Participants).Should(Equal([]string{"u2"}))
			Ω(second.SelectedAgents["u2"]).Should(Equal("alpha_u2"))

			Ω(store.UpdateAuctionStatusCallCount()).Should(Equal(1))
			Ω(store.UpdateSelectionCallCount()).Should(Equal(2))
		})

		It("announces the update", func() {
			reg.Activate(ctx, auction.ID, "u2", "beta_u2")

			Ω(notifier.EmitCallCount()).Should(Equal(1))
			id, event, _ := notifier.EmitArgsForCall(0)
			Ω(id).Should(Equal(auction.ID))
			Ω(event).Should(Equal(auctiontypes.EventAuctionUpdate))
		})

		It("rejects agents the user does not own", func() {
			_, _, err := reg.Activate(ctx, auction.ID, "u2", "alpha_u1")
			Ω(err).Should(MatchError(auctiontypes.ErrNotFound))

			fetched, _ := reg.Get(ctx, auction.ID)
			Ω(fetched.Status).Should(Equal(auctiontypes.StatusPending))
		})

		It("rejects unknown auctions", func() {
			_, _, err := reg.Activate(ctx, "nope", "u2", "beta_u2")
			Ω(err).Should(MatchError(auctiontypes.ErrNotFound))
		})

		It("reports that completed auctions need no worker", func() {
			reg.Activate(ctx, auction.ID, "u2", "beta_u2")
			reg.Finalize(ctx, auction.ID)

			completed, running, err := reg.Activate(ctx, auction.ID, "u3", "beta_u3")
			Ω(err).ShouldNot(HaveOccurred())
			Ω(running).Should(BeFalse())
			Ω(completed.Status).Should(Equal(auctiontypes.StatusCompleted))
			Ω(completed.Participants).Should(Equal([]string{"u2"}))
		})
	})

	Describe("Finalize", func() {
		var auction auctiontypes.Auction

		BeforeEach(func() {
			auction, _ = reg.Create(ctx, spec, "u1")
		})

		It("refuses to complete an auction that never started", func() {
			_, err := reg.Finalize(ctx, auction.ID)

			var validationErr auctiontypes.ValidationError
			Ω(errors.As(err, &validationErr)).Should(BeTrue())
		})

		Context("with no bids", func() {
			BeforeEach(func() {
				reg.Activate(ctx, auction.ID, "u1", "alpha_u1")
			})

			It("completes without a winner", func() {
				completed, err := reg.Finalize(ctx, auction.ID)
				Ω(err).ShouldNot(HaveOccurred())

				Ω(completed.Status).Should(Equal(auctiontypes.StatusCompleted))
				Ω(completed.WinnerName).Should(Equal(auctiontypes.NoWinnerName))
				Ω(completed.WinnerID).Should(BeEmpty())
				Ω(completed.WinningPrice).ShouldNot(BeNil())
				Ω(*completed.WinningPrice).Should(BeZero())
			})

			It("persists and announces the completion once", func() {
				reg.Finalize(ctx, auction.ID)
				reg.Finalize(ctx, auction.ID)

				Ω(store.UpdateAuctionStatusCallCount()).Should(Equal(2))
				_, persisted := store.UpdateAuctionStatusArgsForCall(1)
				Ω(persisted.Status).Should(Equal(auctiontypes.StatusCompleted))

				completions := 0
				for i := 0; i < notifier.EmitCallCount(); i++ {
					_, event, _ := notifier.EmitArgsForCall(i)
					if event == auctiontypes.EventAuctionComplete {
						completions++
					}
				}
				Ω(completions).Should(Equal(1))
			})
		})

		Context("with tied maximum bids", func() {
			var restored auctiontypes.Auction

			BeforeEach(func() {
				book.EnsureDefaults("x")
				book.EnsureDefaults("y")
				book.EnsureDefaults("z")

				now := clock.Now()
				restored = auctiontypes.Auction{
					ID:             "tied",
					Title:          "Tied",
					StartingPrice:  50,
					Increment:      5,
					StartTime:      now,
					EndTime:        now.Add(time.Minute),
					CurrentPrice:   95,
					Status:         auctiontypes.StatusActive,
					Participants:   []string{"x", "y", "z"},
					SelectedAgents: map[string]string{"x": "alpha_x", "y": "beta_y", "z": "gamma_z"},
					Bids: []auctiontypes.Bid{
						{ID: "1", BidderID: "alpha_x", BidderName: "Alpha Bot", Amount: 80, Timestamp: now},
						{ID: "2", BidderID: "beta_y", BidderName: "Beta Bot", BidderType: auctiontypes.StrategyHeuristic, Amount: 95, Timestamp: now.Add(time.Second)},
						{ID: "3", BidderID: "gamma_z", BidderName: "Gamma Bot", Amount: 95, Timestamp: now.Add(2 * time.Second)},
					},
				}
				reg.Restore(restored)
			})

			It("awards the earliest of the highest bids and charges the winner", func() {
				completed, err := reg.Finalize(ctx, "tied")
				Ω(err).ShouldNot(HaveOccurred())

				Ω(completed.WinnerID).Should(Equal("beta_y"))
				Ω(completed.WinnerName).Should(Equal("Beta Bot"))
				Ω(completed.WinnerType).Should(Equal(auctiontypes.StrategyHeuristic))
				Ω(*completed.WinningPrice).Should(Equal(95.0))

				winner, _ := book.Lookup("beta_y")
				Ω(winner.RemainingBudget).Should(Equal(8000.0 - 95))
				Ω(winner.TotalSpent).Should(Equal(95.0))
				Ω(winner.RemainingBudget + winner.TotalSpent).Should(Equal(winner.Budget))

				loser, _ := book.Lookup("gamma_z")
				Ω(loser.RemainingBudget).Should(Equal(loser.Budget))
			})

			It("charges the winner exactly once", func() {
				reg.Finalize(ctx, "tied")
				reg.Finalize(ctx, "tied")
				reg.Get(ctx, "tied")

				winner, _ := book.Lookup("beta_y")
				Ω(winner.TotalSpent).Should(Equal(95.0))
				Ω(book.Held("beta_y")).Should(BeZero())
			})
		})
	})

	Describe("Restore", func() {
		It("re-establishes the leader's hold for active auctions", func() {
			now := clock.Now()
			reg.Restore(auctiontypes.Auction{
				ID:             "r1",
				Status:         auctiontypes.StatusActive,
				StartTime:      now,
				EndTime:        now.Add(time.Minute),
				Participants:   []string{"u1"},
				SelectedAgents: map[string]string{"u1": "alpha_u1"},
				Bids:           []auctiontypes.Bid{{BidderID: "alpha_u1", Amount: 400}},
				CurrentPrice:   400,
			})

			Ω(book.Held("alpha_u1")).Should(Equal(400.0))

			auction, err := reg.Get(ctx, "r1")
			Ω(err).ShouldNot(HaveOccurred())
			Ω(auction.CurrentPrice).Should(Equal(400.0))
		})
	})

	Describe("Mutate", func() {
		It("applies changes to the live auction", func() {
			auction, _ := reg.Create(ctx, spec, "u1")
			reg.Activate(ctx, auction.ID, "u1", "alpha_u1")

			err := reg.Mutate(auction.ID, func(a *auctiontypes.Auction) error {
				return a.AppendBid(auctiontypes.Bid{ID: "b1", BidderID: "alpha_u1", Amount: 120, Timestamp: clock.Now()})
			})
			Ω(err).ShouldNot(HaveOccurred())

			fetched, _ := reg.Get(ctx, auction.ID)
			Ω(fetched.CurrentPrice).Should(Equal(120.0))
			Ω(fetched.Bids).Should(HaveLen(1))
		})

		It("returns not found for unknown ids", func() {
			err := reg.Mutate("nope", func(*auctiontypes.Auction) error { return nil })
			Ω(err).Should(MatchError(auctiontypes.ErrNotFound))
		})
	})
})
