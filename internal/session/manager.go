// Package session хранит состояния форм по идентификатору браузерной сессии.
package session

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"dynform/internal/form"
	"dynform/internal/provider"
)

type entry struct {
	sess     *form.Session
	lastSeen time.Time
}

// Manager — реестр сессий в памяти.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	entropy  io.Reader

	provider    provider.Provider
	log         *zap.SugaredLogger
	defaultForm string
	idleTTL     time.Duration
	formOpts    []form.Option
	now         func() time.Time
}

type Config struct {
	DefaultFormType string
	IdleTTL         time.Duration
	MessageTTL      time.Duration
}

func NewManager(p provider.Provider, cfg Config, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	m := &Manager{
		sessions:    make(map[string]*entry),
		entropy:     ulid.Monotonic(src, 0),
		provider:    p,
		log:         log,
		defaultForm: cfg.DefaultFormType,
		idleTTL:     cfg.IdleTTL,
		now:         time.Now,
	}
	m.formOpts = []form.Option{form.WithLogger(log)}
	if cfg.MessageTTL > 0 {
		m.formOpts = append(m.formOpts, form.WithMessageTTL(cfg.MessageTTL))
	}
	return m
}

func (m *Manager) newID() string {
	return ulid.MustNew(ulid.Timestamp(m.now()), m.entropy).String()
}

// Get возвращает сессию по id. Если id пустой или неизвестен — создаёт новую
// (с выбранной формой по умолчанию) и возвращает её новый id.
func (m *Manager) Get(ctx context.Context, id string) (string, *form.Session) {
	now := m.now()
	if id != "" {
		m.mu.Lock()
		if e, ok := m.sessions[id]; ok {
			e.lastSeen = now
			m.mu.Unlock()
			return id, e.sess
		}
		m.mu.Unlock()
	}

	sess := form.New(m.provider, m.formOpts...)
	if m.defaultForm != "" {
		// ошибку уже залогировала сессия; форма просто будет пустой
		_ = sess.SelectFormType(ctx, m.defaultForm)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	newID := m.newID()
	m.sessions[newID] = &entry{sess: sess, lastSeen: now}
	m.log.Debugw("session created", "session", newID)
	return newID, sess
}

// Lookup возвращает существующую сессию без создания.
func (m *Manager) Lookup(id string) (*form.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return e.sess, true
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep удаляет сессии, простаивающие дольше idleTTL. Возвращает число удалённых.
func (m *Manager) Sweep(now time.Time) int {
	if m.idleTTL <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.idleTTL {
			delete(m.sessions, id)
			n++
		}
	}
	if n > 0 {
		m.log.Infow("idle sessions expired", "count", n)
	}
	return n
}

// Run периодически чистит простаивающие сессии, пока ctx не отменён.
func (m *Manager) Run(ctx context.Context, every time.Duration) {
	if every <= 0 || m.idleTTL <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			m.Sweep(now)
		}
	}
}
