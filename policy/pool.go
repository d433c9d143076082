package policy

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"code.cloudfoundry.org/lager/v3"
	"github.com/agentbid/auction/auctiontypes"
	lru "github.com/hashicorp/golang-lru"
)

const saveTimeout = 10 * time.Second

func ModelKey(agentID string) string {
	return agentID + "_pretrained"
}

// Pool hands out one policy per agent. Policies are restored from the model
// store on first use and written back when they fall out of the cache. An
// evicted policy stays reachable until its save finishes, so an agent never
// trains two copies.
type Pool struct {
	logger lager.Logger
	store  auctiontypes.ModelStore
	config Config

	lock    *sync.Mutex
	cache   *lru.Cache
	saving  map[string]*inFlight
	evicted []eviction
}

type eviction struct {
	agentID string
	policy  *DQN
}

type inFlight struct {
	policy *DQN
	saves  int
}

func NewPool(logger lager.Logger, store auctiontypes.ModelStore, config Config, size int) (*Pool, error) {
	p := &Pool{
		logger: logger.Session("policy-pool"),
		store:  store,
		config: config,
		lock:   &sync.Mutex{},
		saving: map[string]*inFlight{},
	}

	cache, err := lru.NewWithEvict(size, p.onEvict)
	if err != nil {
		return nil, err
	}
	p.cache = cache
	return p, nil
}

func (p *Pool) PolicyFor(ctx context.Context, agentID string) (*DQN, error) {
	p.lock.Lock()
	policy, ok := p.cached(agentID)
	evicted := p.takeEvicted()
	p.lock.Unlock()

	p.flush(evicted)
	if ok {
		return policy, nil
	}

	loaded := p.load(ctx, agentID)

	p.lock.Lock()
	// another caller may have loaded the same agent meanwhile
	policy, ok = p.cached(agentID)
	if !ok {
		policy = loaded
		p.cache.Add(agentID, policy)
	}
	evicted = p.takeEvicted()
	p.lock.Unlock()

	p.flush(evicted)
	return policy, nil
}

// cached looks in the cache and then among evicted policies whose save has
// not finished. Callers hold p.lock.
func (p *Pool) cached(agentID string) (*DQN, bool) {
	if cached, ok := p.cache.Get(agentID); ok {
		return cached.(*DQN), true
	}
	if entry, ok := p.saving[agentID]; ok {
		p.cache.Add(agentID, entry.policy)
		return entry.policy, true
	}
	return nil, false
}

func (p *Pool) takeEvicted() []eviction {
	evicted := p.evicted
	p.evicted = nil
	return evicted
}

// flush saves evicted policies. It runs without p.lock.
func (p *Pool) flush(evicted []eviction) {
	for _, e := range evicted {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		if err := p.Save(ctx, e.agentID, e.policy); err != nil {
			p.logger.Error("failed-to-save-evicted-model", err, lager.Data{"agent-id": e.agentID})
		}
		cancel()

		p.lock.Lock()
		if entry, ok := p.saving[e.agentID]; ok && entry.policy == e.policy {
			entry.saves--
			if entry.saves == 0 {
				delete(p.saving, e.agentID)
			}
		}
		p.lock.Unlock()
	}
}

func (p *Pool) load(ctx context.Context, agentID string) *DQN {
	config := p.config
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	config.Seed += seedOffset(agentID)
	policy := New(config)

	logger := p.logger.Session("load", lager.Data{"agent-id": agentID})
	blob, found, err := p.store.Load(ctx, ModelKey(agentID))
	switch {
	case err != nil:
		logger.Error("failed-to-load-model", err)
	case !found:
		logger.Debug("no-saved-model")
	default:
		if err := policy.LoadParameters(blob); err != nil {
			logger.Error("failed-to-restore-model", err)
		} else {
			logger.Info("restored-model")
		}
	}
	return policy
}

func (p *Pool) Peek(agentID string) (*DQN, bool) {
	cached, ok := p.cache.Peek(agentID)
	if !ok {
		return nil, false
	}
	return cached.(*DQN), true
}

func (p *Pool) Save(ctx context.Context, agentID string, policy *DQN) error {
	blob, err := policy.Parameters()
	if err != nil {
		return err
	}
	return p.store.Save(ctx, ModelKey(agentID), blob)
}

// SaveAll writes every cached policy back to the model store.
func (p *Pool) SaveAll(ctx context.Context) error {
	var firstErr error
	for _, key := range p.cache.Keys() {
		agentID := key.(string)
		policy, ok := p.Peek(agentID)
		if !ok {
			continue
		}
		if err := p.Save(ctx, agentID, policy); err != nil {
			p.logger.Error("failed-to-save-model", err, lager.Data{"agent-id": agentID})
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// onEvict runs inside cache.Add, which is only called with p.lock held.
func (p *Pool) onEvict(key interface{}, value interface{}) {
	agentID := key.(string)
	policy := value.(*DQN)

	entry, ok := p.saving[agentID]
	if !ok || entry.policy != policy {
		entry = &inFlight{policy: policy}
		p.saving[agentID] = entry
	}
	entry.saves++
	p.evicted = append(p.evicted, eviction{agentID: agentID, policy: policy})
}

func seedOffset(agentID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(agentID))
	return int64(h.Sum64() >> 1)
}
