package policy_test

import (
	"context"
	"errors"

	"github.com/agentbid/auction/auctiontypes/fakes"
	. "github.com/agentbid/auction/policy"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Pool", func() {
	var store *fakes.FakeModelStore
	var pool *Pool
	var ctx context.Context
	state := []float64{100, 10, 500, 30}

	BeforeEach(func() {
		ctx = context.Background()
		store = &fakes.FakeModelStore{}
		store.LoadReturns(nil, false, nil)

		var err error
		pool, err = NewPool(logger, store, smallConfig(), 2)
		Ω(err).ShouldNot(HaveOccurred())
	})

	It("hands out the same policy for the same agent", func() {
		first, err := pool.PolicyFor(ctx, "alpha_u1")
		Ω(err).ShouldNot(HaveOccurred())
		second, err := pool.PolicyFor(ctx, "alpha_u1")
		Ω(err).ShouldNot(HaveOccurred())

		Ω(second).Should(BeIdenticalTo(first))
		Ω(store.LoadCallCount()).Should(Equal(1))
		_, key := store.LoadArgsForCall(0)
		Ω(key).Should(Equal("alpha_u1_pretrained"))
	})

	It("keeps separate policies per agent", func() {
		alpha, _ := pool.PolicyFor(ctx, "alpha_u1")
		beta, _ := pool.PolicyFor(ctx, "beta_u1")
		Ω(alpha).ShouldNot(BeIdenticalTo(beta))
	})

	Context("when a saved model exists", func() {
		var saved *DQN

		BeforeEach(func() {
			saved = New(smallConfig())
			blob, err := saved.Parameters()
			Ω(err).ShouldNot(HaveOccurred())
			store.LoadReturns(blob, true, nil)
		})

		It("restores it", func() {
			policy, err := pool.PolicyFor(ctx, "gamma_u1")
			Ω(err).ShouldNot(HaveOccurred())
			Ω(policy.QValues(state)).Should(Equal(saved.QValues(state)))
		})
	})

	Context("when loading fails", func() {
		BeforeEach(func() {
			store.LoadReturns(nil, false, errors.New("boom"))
		})

		It("starts from fresh parameters", func() {
			policy, err := pool.PolicyFor(ctx, "alpha_u1")
			Ω(err).ShouldNot(HaveOccurred())
			Ω(policy).ShouldNot(BeNil())
		})
	})

	It("saves policies that fall out of the cache", func() {
		pool.PolicyFor(ctx, "a")
		pool.PolicyFor(ctx, "b")
		Ω(store.SaveCallCount()).Should(Equal(0))

		pool.PolicyFor(ctx, "c")
		Ω(store.SaveCallCount()).Should(Equal(1))
		_, key, blob := store.SaveArgsForCall(0)
		Ω(key).Should(Equal("a_pretrained"))
		Ω(blob).ShouldNot(BeEmpty())
	})

	It("saves evicted policies without blocking other callers", func() {
		pool.PolicyFor(ctx, "a")
		pool.PolicyFor(ctx, "b")

		done := make(chan struct{})
		store.SaveStub = func(context.Context, string, []byte) error {
			go func() {
				defer GinkgoRecover()
				pool.PolicyFor(ctx, "b")
				close(done)
			}()
			Eventually(done).Should(BeClosed())
			return nil
		}

		pool.PolicyFor(ctx, "c")
		Ω(store.SaveCallCount()).Should(Equal(1))
		_, key, _ := store.SaveArgsForCall(0)
		Ω(key).Should(Equal("a_pretrained"))
	})

	It("hands back an evicted policy while it is still being saved", func() {
		first, _ := pool.PolicyFor(ctx, "a")
		pool.PolicyFor(ctx, "b")

		var again *DQN
		store.SaveStub = func(_ context.Context, key string, _ []byte) error {
			if key == "a_pretrained" && again == nil {
				again, _ = pool.PolicyFor(ctx, "a")
			}
			return nil
		}

		pool.PolicyFor(ctx, "c")
		Ω(again).Should(BeIdenticalTo(first))
		Ω(store.LoadCallCount()).Should(Equal(3))
	})

	It("saves every cached policy on SaveAll", func() {
		pool.PolicyFor(ctx, "a")
		pool.PolicyFor(ctx, "b")

		Ω(pool.SaveAll(ctx)).Should(Succeed())
		Ω(store.SaveCallCount()).Should(Equal(2))
	})
})
