package replay

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/agentbid/auction/auctiontypes"
)

const DefaultCapacity = 5000

// Buffer is a fixed-capacity ring of transitions. Pushing past capacity
// overwrites the oldest entry.
type Buffer struct {
	lock        *sync.Mutex
	transitions []auctiontypes.Transition
	next        int
	size        int
}

func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		lock:        &sync.Mutex{},
		transitions: make([]auctiontypes.Transition, capacity),
	}
}

func (b *Buffer) Capacity() int {
	return len(b.transitions)
}

func (b *Buffer) Len() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.size
}

func (b *Buffer) Push(t auctiontypes.Transition) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.transitions[b.next] = t.Copy()
	b.next = (b.next + 1) % len(b.transitions)
	if b.size < len(b.transitions) {
		b.size++
	}
}

// Oldest returns the least recently pushed transition still held.
func (b *Buffer) Oldest() (auctiontypes.Transition, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.size == 0 {
		return auctiontypes.Transition{}, false
	}
	return b.transitions[b.oldestIndex()].Copy(), true
}

// All returns the held transitions from oldest to newest.
func (b *Buffer) All() []auctiontypes.Transition {
	b.lock.Lock()
	defer b.lock.Unlock()

	out := make([]auctiontypes.Transition, 0, b.size)
	start := b.oldestIndex()
	for i := 0; i < b.size; i++ {
		out = append(out, b.transitions[(start+i)%len(b.transitions)].Copy())
	}
	return out
}

// Sample draws n distinct transitions uniformly at random. Sampling never
// removes anything from the buffer.
func (b *Buffer) Sample(n int, rng *rand.Rand) ([]auctiontypes.Transition, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if n > b.size {
		return nil, fmt.Errorf("%w: requested %d, have %d", auctiontypes.ErrInsufficientSamples, n, b.size)
	}

	indices := make([]int, b.size)
	for i := range indices {
		indices[i] = i
	}

	// partial Fisher-Yates over the occupied range
	out := make([]auctiontypes.Transition, n)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(b.size-i)
		indices[i], indices[j] = indices[j], indices[i]
		out[i] = b.transitions[indices[i]].Copy()
	}
	return out, nil
}

func (b *Buffer) oldestIndex() int {
	if b.size < len(b.transitions) {
		return 0
	}
	return b.next
}
