// Package provider — мок-источник схем форм.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dynform/internal/schema"
)

// ErrFormTypeNotFound возвращается для неизвестного типа формы.
var ErrFormTypeNotFound = errors.New("form type not found")

// Provider отдаёт список типов форм и схему по имени типа.
type Provider interface {
	Forms(ctx context.Context) []string
	GetForm(ctx context.Context, formType string) (schema.Form, error)
}

// Static — провайдер поверх in-memory каталога.
type Static struct {
	mu      sync.RWMutex
	catalog *schema.Catalog
	latency time.Duration
}

type Option func(*Static)

// WithLatency добавляет искусственную задержку на каждый GetForm.
func WithLatency(d time.Duration) Option {
	return func(s *Static) { s.latency = d }
}

func NewStatic(c *schema.Catalog, opts ...Option) *Static {
	if c == nil {
		c = schema.NewCatalog()
	}
	s := &Static{catalog: c}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Static) Forms(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Types()
}

func (s *Static) GetForm(ctx context.Context, formType string) (schema.Form, error) {
	if s.latency > 0 {
		t := time.NewTimer(s.latency)
		select {
		case <-ctx.Done():
			t.Stop()
			return schema.Form{}, ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return schema.Form{}, err
	}

	s.mu.RLock()
	f, ok := s.catalog.Get(formType)
	s.mu.RUnlock()
	if !ok {
		return schema.Form{}, fmt.Errorf("%w: %q", ErrFormTypeNotFound, formType)
	}
	return f, nil
}

// Reload атомарно заменяет каталог. Каталог с блокирующими проблемами не принимается.
func (s *Static) Reload(c *schema.Catalog) ([]schema.Issue, error) {
	if c == nil {
		return nil, errors.New("nil catalog")
	}
	if issues := c.Lint(); len(issues) > 0 {
		return issues, errors.New("schema has blocking issues")
	}
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
	return nil, nil
}

// Load собирает каталог: встроенные формы плюс формы из dir (если задана).
func Load(dir string) (*schema.Catalog, error) {
	c := schema.Builtin()
	if dir == "" {
		return c, nil
	}
	extra, err := schema.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	c.Merge(extra)
	return c, nil
}
