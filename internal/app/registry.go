package app

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

// ResourceCloser releases engine resources on behalf of the registry.
type ResourceCloser interface {
	Close(res core.Closable) error
}

// TransportRef is a registered transport together with its fixed role.
type TransportRef struct {
	domain.Transport
	Handle core.EngineTransport
}

type ConsumerRef struct {
	Owner  domain.SessionID
	Handle core.EngineConsumer
}

type userBucket struct {
	transports map[domain.TransportID]*TransportRef
	producers  map[domain.ProducerID]core.EngineProducer
	consumers  map[domain.ConsumerID]core.EngineConsumer
}

func newUserBucket() *userBucket {
	return &userBucket{
		transports: make(map[domain.TransportID]*TransportRef),
		producers:  make(map[domain.ProducerID]core.EngineProducer),
		consumers:  make(map[domain.ConsumerID]core.EngineConsumer),
	}
}

// Registry owns every transport, producer and consumer, bucketed per session.
// Engine calls are never made while holding mu.
type Registry struct {
	mu     sync.RWMutex
	users  map[domain.SessionID]*userBucket
	closer ResourceCloser
}

func NewRegistry(closer ResourceCloser) *Registry {
	return &Registry{
		users:  make(map[domain.SessionID]*userBucket),
		closer: closer,
	}
}

func (r *Registry) bucket(sid domain.SessionID) *userBucket {
	b, ok := r.users[sid]
	if !ok {
		b = newUserBucket()
		r.users[sid] = b
	}
	return b
}

// RegisterTransport panics on a duplicate id: engine ids are globally unique.
func (r *Registry) RegisterTransport(sid domain.SessionID, t core.EngineTransport, role domain.Role) *TransportRef {
	ref := &TransportRef{
		Transport: domain.Transport{ID: t.ID(), Owner: sid, Role: role},
		Handle:    t,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.bucket(sid)
	if _, dup := b.transports[ref.ID]; dup {
		panic(fmt.Sprintf("registry: duplicate transport id %s for session %s", ref.ID, sid))
	}
	b.transports[ref.ID] = ref
	log.Debug().Str("module", "app.registry").Str("sid", string(sid)).Str("transport", string(ref.ID)).Str("role", string(role)).Msg("registered transport")
	return ref
}

// LookupTransport resolves a transport of sid. A nil expected role skips the role check.
func (r *Registry) LookupTransport(sid domain.SessionID, id domain.TransportID, expected *domain.Role) (*TransportRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.users[sid]
	if !ok {
		return nil, fmt.Errorf("no transports for session %s: %w", sid, domain.ErrNotFound)
	}
	ref, ok := b.transports[id]
	if !ok {
		return nil, fmt.Errorf("transport %s: %w", id, domain.ErrNotFound)
	}
	if expected != nil && ref.Role != *expected {
		return nil, fmt.Errorf("transport %s is not a %s transport: %w", id, *expected, domain.ErrRoleMismatch)
	}
	return ref, nil
}

func (r *Registry) RegisterProducer(sid domain.SessionID, p core.EngineProducer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bucket(sid).producers[p.ID()] = p
	log.Debug().Str("module", "app.registry").Str("sid", string(sid)).Str("producer", string(p.ID())).Msg("registered producer")
}

func (r *Registry) RegisterConsumer(sid domain.SessionID, c core.EngineConsumer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bucket(sid).consumers[c.ID()] = c
	log.Debug().Str("module", "app.registry").Str("sid", string(sid)).Str("consumer", string(c.ID())).Msg("registered consumer")
}

// ListProducers returns a snapshot of every producer across all sessions.
func (r *Registry) ListProducers() []domain.ProducerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ProducerInfo, 0)
	for sid, b := range r.users {
		out = append(out, producerInfos(sid, b)...)
	}
	return out
}

func (r *Registry) ListProducersForUser(sid domain.SessionID) []domain.ProducerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.users[sid]
	if !ok {
		return []domain.ProducerInfo{}
	}
	return producerInfos(sid, b)
}

func producerInfos(sid domain.SessionID, b *userBucket) []domain.ProducerInfo {
	return lo.MapToSlice(b.producers, func(id domain.ProducerID, p core.EngineProducer) domain.ProducerInfo {
		return domain.ProducerInfo{ID: id, SocketID: sid, Kind: p.Kind()}
	})
}

// LookupProducer finds a producer by id regardless of its owner.
func (r *Registry) LookupProducer(id domain.ProducerID) (domain.ProducerInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for sid, b := range r.users {
		if p, ok := b.producers[id]; ok {
			return domain.ProducerInfo{ID: id, SocketID: sid, Kind: p.Kind()}, nil
		}
	}
	return domain.ProducerInfo{}, fmt.Errorf("producer %s: %w", id, domain.ErrNotFound)
}

func (r *Registry) LookupConsumer(sid domain.SessionID, id domain.ConsumerID) (*ConsumerRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.users[sid]
	if !ok {
		return nil, fmt.Errorf("no consumers for session %s: %w", sid, domain.ErrNotFound)
	}
	c, ok := b.consumers[id]
	if !ok {
		return nil, fmt.Errorf("consumer %s: %w", id, domain.ErrNotFound)
	}
	return &ConsumerRef{Owner: sid, Handle: c}, nil
}

// ReleaseUser detaches every resource of sid in one step, then closes them
// consumers first, producers next, transports last. Every close is attempted;
// failures are aggregated. Calling it again is a no-op.
func (r *Registry) ReleaseUser(sid domain.SessionID) error {
	r.mu.Lock()
	b, ok := r.users[sid]
	delete(r.users, sid)
	r.mu.Unlock()
	if !ok {
		return nil
	}

	var errs error
	for id, c := range b.consumers {
		if err := r.closer.Close(c); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close consumer %s: %w", id, err))
		}
	}
	for id, p := range b.producers {
		if err := r.closer.Close(p); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close producer %s: %w", id, err))
		}
	}
	for id, t := range b.transports {
		if err := r.closer.Close(t.Handle); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close transport %s: %w", id, err))
		}
	}
	log.Info().
		Str("module", "app.registry").
		Str("sid", string(sid)).
		Int("transports", len(b.transports)).
		Int("producers", len(b.producers)).
		Int("consumers", len(b.consumers)).
		Int("failed", len(multierr.Errors(errs))).
		Msg("released user")
	return errs
}

// Counts of what sid currently owns.
func (r *Registry) Counts(sid domain.SessionID) (transports, producers, consumers int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.users[sid]
	if !ok {
		return 0, 0, 0
	}
	return len(b.transports), len(b.producers), len(b.consumers)
}

type RegistryStats struct {
	Users      int `json:"users"`
	Transports int `json:"transports"`
	Producers  int `json:"producers"`
	Consumers  int `json:"consumers"`
}

func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := RegistryStats{Users: len(r.users)}
	for _, b := range r.users {
		st.Transports += len(b.transports)
		st.Producers += len(b.producers)
		st.Consumers += len(b.consumers)
	}
	return st
}
