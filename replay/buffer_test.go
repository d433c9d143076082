package replay_test

import (
	"math/rand"

	"github.com/agentbid/auction/auctiontypes"
	. "github.com/agentbid/auction/replay"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func transition(action int) auctiontypes.Transition {
	return auctiontypes.Transition{
		State:     []float64{float64(action), 1, 2, 3},
		Action:    action,
		Reward:    float64(action) / 10,
		NextState: []float64{float64(action + 1), 1, 2, 3},
	}
}

var _ = Describe("Buffer", func() {
	var buffer *Buffer
	var rng *rand.Rand

	BeforeEach(func() {
		buffer = NewBuffer(3)
		rng = rand.New(rand.NewSource(42))
	})

	It("should start off empty", func() {
		Ω(buffer.Len()).Should(Equal(0))
		_, ok := buffer.Oldest()
		Ω(ok).Should(BeFalse())
	})

	It("never holds more than its capacity", func() {
		for i := 0; i < 10; i++ {
			buffer.Push(transition(i))
			Ω(buffer.Len()).Should(BeNumerically("<=", 3))
		}
		Ω(buffer.Len()).Should(Equal(3))
	})

	It("evicts the oldest transition first", func() {
		for i := 0; i < 4; i++ {
			buffer.Push(transition(i))
		}

		oldest, ok := buffer.Oldest()
		Ω(ok).Should(BeTrue())
		Ω(oldest.Action).Should(Equal(1))

		actions := []int{}
		for _, t := range buffer.All() {
			actions = append(actions, t.Action)
		}
		Ω(actions).Should(Equal([]int{1, 2, 3}))
	})

	It("copies pushed transitions", func() {
		t := transition(0)
		buffer.Push(t)
		t.State[0] = 99

		oldest, _ := buffer.Oldest()
		Ω(oldest.State[0]).Should(Equal(0.0))
	})

	Describe("Sample", func() {
		BeforeEach(func() {
			for i := 0; i < 3; i++ {
				buffer.Push(transition(i))
			}
		})

		It("draws distinct transitions without removing them", func() {
			batch, err := buffer.Sample(3, rng)
			Ω(err).ShouldNot(HaveOccurred())

			actions := []int{}
			for _, t := range batch {
				actions = append(actions, t.Action)
			}
			Ω(actions).Should(ConsistOf(0, 1, 2))
			Ω(buffer.Len()).Should(Equal(3))
		})

		It("hands out copies", func() {
			batch, err := buffer.Sample(1, rng)
			Ω(err).ShouldNot(HaveOccurred())
			batch[0].State[0] = -1

			for _, t := range buffer.All() {
				Ω(t.State[0]).ShouldNot(Equal(-1.0))
			}
		})

		It("refuses batches larger than the occupancy", func() {
			_, err := buffer.Sample(4, rng)
			Ω(err).Should(MatchError(auctiontypes.ErrInsufficientSamples))
		})
	})
})
