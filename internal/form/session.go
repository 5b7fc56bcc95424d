// Package form — состояние динамической формы: выбранный тип, значения,
// ошибки, прогресс заполнения и список отправленных записей.
package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"dynform/internal/provider"
	"dynform/internal/schema"
)

const DefaultMessageTTL = 3 * time.Second

type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message — временное сообщение об успехе/ошибке.
type Message struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"text"`
	At   time.Time   `json:"at"`
}

// Session — состояние одной формы. Все методы потокобезопасны.
type Session struct {
	mu       sync.Mutex
	provider provider.Provider
	log      *zap.SugaredLogger
	now      func() time.Time
	ttl      time.Duration

	formType string
	form     schema.Form
	values   map[string]string
	errors   Errors
	entries  *Collection
	editing  int
	message  *Message
}

type Option func(*Session)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithMessageTTL(d time.Duration) Option {
	return func(s *Session) { s.ttl = d }
}

// New создаёт пустую сессию без выбранной формы.
func New(p provider.Provider, opts ...Option) *Session {
	s := &Session{
		provider: p,
		log:      zap.NewNop().Sugar(),
		now:      time.Now,
		ttl:      DefaultMessageTTL,
		values:   map[string]string{},
		errors:   Errors{},
		entries:  NewCollection(),
		editing:  -1,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SelectFormType загружает схему и сбрасывает значения, ошибки и режим редактирования.
// При ошибке прежняя схема остаётся.
func (s *Session) SelectFormType(ctx context.Context, formType string) error {
	form, err := s.provider.GetForm(ctx, formType)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.Errorw("error fetching form data", "formType", formType, "error", err)
		s.setMessageLocked(MessageError, "Could not load form "+formType)
		return err
	}
	s.applyFormLocked(form)
	s.log.Debugw("form type selected", "formType", formType, "fields", len(form.Fields))
	return nil
}

func (s *Session) applyFormLocked(form schema.Form) {
	s.formType = form.Type
	s.form = form
	s.values = map[string]string{}
	s.errors = Errors{}
	s.editing = -1
}

// SetValue сохраняет значение поля и перепроверяет именно это поле.
func (s *Session) SetValue(name, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setValueLocked(name, raw)
}

// SetValues применяет несколько значений; неизвестные поля — ошибка, и ничего не меняется.
func (s *Session) SetValues(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range values {
		if _, ok := s.form.Field(name); !ok {
			return fmtUnknown(name)
		}
	}
	for _, f := range s.form.Fields {
		if raw, ok := values[f.Name]; ok {
			if err := s.setValueLocked(f.Name, raw); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) setValueLocked(name, raw string) error {
	f, ok := s.form.Field(name)
	if !ok {
		return fmtUnknown(name)
	}
	raw = sanitizeValue(f, raw)
	s.values[name] = raw
	if fe := ValidateField(f, raw); fe != nil {
		s.errors[name] = fe.Message
	} else {
		delete(s.errors, name)
	}
	return nil
}

func fmtUnknown(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// SubmitResult — итог успешной отправки.
type SubmitResult struct {
	Entry   Entry `json:"entry"`
	Index   int   `json:"index"`
	Updated bool  `json:"updated"`
}

// Submit проверяет все поля. Если всё корректно — создаёт запись
// (или заменяет редактируемую на её месте) и очищает форму.
func (s *Session) Submit() (SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.formType == "" {
		return SubmitResult{}, ErrNoForm
	}

	if errs := ValidateAll(s.form, s.values); len(errs) > 0 {
		for _, fe := range errs {
			s.errors[fe.Field] = fe.Message
		}
		s.setMessageLocked(MessageError, "Please fix the highlighted fields")
		return SubmitResult{}, &ValidationError{Errors: errs}
	}

	data := make(map[string]any, len(s.form.Fields))
	for _, f := range s.form.Fields {
		raw := s.values[f.Name]
		if isEmpty(f, raw) {
			continue
		}
		v, err := coerceValue(f, raw)
		if err != nil {
			// ValidateAll уже отсеял такие значения
			return SubmitResult{}, err
		}
		data[f.Name] = v
	}

	now := s.now()
	var res SubmitResult
	if s.editing >= 0 {
		e, err := s.entries.Replace(s.editing, data, now)
		if err != nil {
			s.editing = -1
			return SubmitResult{}, err
		}
		res = SubmitResult{Entry: e, Index: s.editing, Updated: true}
		s.setMessageLocked(MessageSuccess, "Entry updated")
	} else {
		e, idx := s.entries.Add(s.formType, data, s.secretFieldsLocked(), now)
		res = SubmitResult{Entry: e, Index: idx}
		s.setMessageLocked(MessageSuccess, "Entry added")
	}

	res.Entry = res.Entry.masked()
	s.values = map[string]string{}
	s.errors = Errors{}
	s.editing = -1
	s.log.Infow("entry submitted", "formType", s.formType, "id", res.Entry.ID, "updated", res.Updated)
	return res, nil
}

// Edit подставляет значения записи в форму. Если запись другого типа —
// сначала переключает форму на её тип.
func (s *Session) Edit(ctx context.Context, index int) error {
	s.mu.Lock()
	e, ok := s.entries.At(index)
	current := s.formType
	s.mu.Unlock()
	if !ok {
		return ErrEntryNotFound
	}

	var form schema.Form
	if e.FormType != current {
		f, err := s.provider.GetForm(ctx, e.FormType)
		if err != nil {
			s.log.Errorw("error fetching form data", "formType", e.FormType, "error", err)
			return err
		}
		form = f
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// запись могла быть удалена, пока мы ходили за схемой
	if cur, ok := s.entries.At(index); !ok || cur.ID != e.ID {
		return ErrEntryNotFound
	}
	if form.Type != "" {
		s.applyFormLocked(form)
	}

	s.values = make(map[string]string, len(e.Values))
	for k, v := range e.Values {
		s.values[k] = formatValue(v)
	}
	s.errors = Errors{}
	for _, f := range s.form.Fields {
		if fe := ValidateField(f, s.values[f.Name]); fe != nil {
			s.errors[f.Name] = fe.Message
		}
	}
	s.editing = index
	return nil
}

// CancelEdit выходит из режима редактирования и очищает форму.
func (s *Session) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]string{}
	s.errors = Errors{}
	s.editing = -1
}

// Delete удаляет запись по индексу.
func (s *Session) Delete(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entries.Remove(index)
	if err != nil {
		return err
	}
	switch {
	case s.editing == index:
		s.values = map[string]string{}
		s.errors = Errors{}
		s.editing = -1
	case s.editing > index:
		s.editing--
	}
	s.setMessageLocked(MessageSuccess, "Entry deleted")
	s.log.Infow("entry deleted", "id", e.ID, "index", index)
	return nil
}

// Progress — процент полей схемы с непустым значением (0..100).
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked()
}

func (s *Session) progressLocked() float64 {
	total := len(s.form.Fields)
	if total == 0 {
		return 0
	}
	filled := 0
	for _, f := range s.form.Fields {
		if !isEmpty(f, s.values[f.Name]) {
			filled++
		}
	}
	return float64(filled) / float64(total) * 100
}

func (s *Session) secretFieldsLocked() []string {
	var out []string
	for _, f := range s.form.Fields {
		if f.Type == schema.TypePassword {
			out = append(out, f.Name)
		}
	}
	return out
}

func (s *Session) setMessageLocked(kind MessageKind, text string) {
	s.message = &Message{Kind: kind, Text: text, At: s.now()}
}

func (s *Session) messageLocked() (Message, bool) {
	if s.message == nil {
		return Message{}, false
	}
	if s.ttl > 0 && s.now().Sub(s.message.At) >= s.ttl {
		s.message = nil
		return Message{}, false
	}
	return *s.message, true
}

// Message возвращает текущее сообщение, пока оно не устарело.
func (s *Session) Message() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messageLocked()
}

// TakeMessage возвращает сообщение и сразу его сбрасывает.
func (s *Session) TakeMessage() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messageLocked()
	s.message = nil
	return m, ok
}

// State — снимок сессии для отображения.
type State struct {
	FormType string            `json:"formType"`
	Fields   []schema.Field    `json:"fields"`
	Values   map[string]string `json:"values"`
	Errors   Errors            `json:"errors"`
	Progress float64           `json:"progress"`
	Entries  []Entry           `json:"entries"`
	Editing  int               `json:"editing"`
	Message  *Message          `json:"message,omitempty"`
}

// Snapshot возвращает копию состояния. flash=true сбрасывает сообщение после чтения.
func (s *Session) Snapshot(flash bool) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		FormType: s.formType,
		Fields:   s.form.Clone().Fields,
		Values:   make(map[string]string, len(s.values)),
		Errors:   s.errors.clone(),
		Progress: s.progressLocked(),
		Entries:  s.entries.All(),
		Editing:  s.editing,
	}
	for i := range st.Entries {
		st.Entries[i] = st.Entries[i].masked()
	}
	// пароли в снимок не попадают, значение остаётся только в сессии
	secret := s.secretFieldsLocked()
	for k, v := range s.values {
		if !contains(secret, k) {
			st.Values[k] = v
		}
	}
	if m, ok := s.messageLocked(); ok {
		st.Message = &m
		if flash {
			s.message = nil
		}
	}
	return st
}

// FormType — текущий выбранный тип формы.
func (s *Session) FormType() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formType
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
