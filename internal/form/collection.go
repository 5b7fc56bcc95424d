package form

import (
	"io"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entry — одна отправленная форма.
type Entry struct {
	ID        string         `json:"id"`
	FormType  string         `json:"formType"`
	Values    map[string]any `json:"values"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	secret []string // поля-пароли: наружу отдаются замаскированными
}

// PasswordMask подставляется вместо значения пароля.
const PasswordMask = "••••"

// Display возвращает значение поля строкой (для таблицы).
func (e Entry) Display(field string) string {
	return formatValue(e.Values[field])
}

func (e Entry) clone() Entry {
	vals := make(map[string]any, len(e.Values))
	for k, v := range e.Values {
		vals[k] = v
	}
	e.Values = vals
	e.secret = append([]string(nil), e.secret...)
	return e
}

// masked — копия, в которой непустые пароли заменены маской.
func (e Entry) masked() Entry {
	out := e.clone()
	for _, name := range out.secret {
		if v, ok := out.Values[name]; ok && formatValue(v) != "" {
			out.Values[name] = PasswordMask
		}
	}
	return out
}

// Collection — список записей в порядке добавления. Не потокобезопасен,
// синхронизация на стороне Session.
type Collection struct {
	items   []Entry
	entropy io.Reader
}

func NewCollection() *Collection {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Collection{entropy: ulid.Monotonic(src, 0)}
}

func (c *Collection) newID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), c.entropy).String()
}

// Add дописывает запись в конец и возвращает её индекс.
// secret — имена полей, значения которых нельзя показывать.
func (c *Collection) Add(formType string, values map[string]any, secret []string, now time.Time) (Entry, int) {
	e := Entry{
		ID:        c.newID(now),
		FormType:  formType,
		Values:    values,
		CreatedAt: now,
		UpdatedAt: now,
		secret:    append([]string(nil), secret...),
	}
	c.items = append(c.items, e)
	return e.clone(), len(c.items) - 1
}

// Replace заменяет значения записи на месте; ID и CreatedAt сохраняются.
func (c *Collection) Replace(index int, values map[string]any, now time.Time) (Entry, error) {
	if index < 0 || index >= len(c.items) {
		return Entry{}, ErrEntryNotFound
	}
	c.items[index].Values = values
	c.items[index].UpdatedAt = now
	return c.items[index].clone(), nil
}

// Remove удаляет запись по индексу, сохраняя порядок остальных.
func (c *Collection) Remove(index int) (Entry, error) {
	if index < 0 || index >= len(c.items) {
		return Entry{}, ErrEntryNotFound
	}
	e := c.items[index]
	c.items = append(c.items[:index], c.items[index+1:]...)
	return e, nil
}

func (c *Collection) At(index int) (Entry, bool) {
	if index < 0 || index >= len(c.items) {
		return Entry{}, false
	}
	return c.items[index].clone(), true
}

func (c *Collection) Len() int { return len(c.items) }

// All возвращает копии всех записей.
func (c *Collection) All() []Entry {
	out := make([]Entry, len(c.items))
	for i, e := range c.items {
		out[i] = e.clone()
	}
	return out
}
