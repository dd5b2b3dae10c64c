// Package portfolio keeps named header prototypes and hands out fresh packet
// instances cloned from them.
package portfolio

import (
	"fmt"
	"sync"

	"github.com/danmuck/spwkit/internal/protocol"
	"github.com/danmuck/spwkit/internal/protocol/packet"
	"github.com/danmuck/spwkit/internal/protocol/schema"
	"github.com/rs/zerolog/log"
)

type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*schema.Schema
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{schemas: map[string]*schema.Schema{}}
}

// Register adds s under its name. Names are unique within a registry.
func (r *Registry) Register(s *schema.Schema) error {
	if s == nil {
		return fmt.Errorf("%w: nil schema", protocol.ErrEmptySchema)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schemas[s.Name()]; ok {
		return fmt.Errorf("%w: %q", protocol.ErrDuplicateSchema, s.Name())
	}
	r.schemas[s.Name()] = s
	r.order = append(r.order, s.Name())
	log.Debug().Str("schema", s.Name()).Int("bits", s.BitWidth()).Msg("schema registered")
	return nil
}

func (r *Registry) MustRegister(schemas ...*schema.Schema) {
	for _, s := range schemas {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Get(name string) (*schema.Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", protocol.ErrSchemaNotFound, name)
	}
	return s, nil
}

// New returns a fresh instance of the prototype registered under name.
func (r *Registry) New(name string) (*packet.Packet, error) {
	s, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return packet.New(s), nil
}

// Names lists the registered schemas in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Schemas returns the registered schemas in registration order.
func (r *Registry) Schemas() []*schema.Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*schema.Schema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.schemas[name])
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
