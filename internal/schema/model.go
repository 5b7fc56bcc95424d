package schema

import "strings"

// FieldType — вид поля ввода (text/number/dropdown/date/password)
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeNumber   FieldType = "number"
	TypeDropdown FieldType = "dropdown"
	TypeDate     FieldType = "date"
	TypePassword FieldType = "password"
)

// Known — поддерживаемый ли это тип
func (t FieldType) Known() bool {
	switch t {
	case TypeText, TypeNumber, TypeDropdown, TypeDate, TypePassword:
		return true
	}
	return false
}

// Field описывает одно поле формы.
type Field struct {
	Name     string    `yaml:"name" json:"name"`
	Type     FieldType `yaml:"type" json:"type"`
	Label    string    `yaml:"label" json:"label"`
	Required bool      `yaml:"required" json:"required"`
	Options  []string  `yaml:"options,omitempty" json:"options,omitempty"`
}

// DisplayLabel возвращает label, а если он пустой — имя поля
func (f Field) DisplayLabel() string {
	if l := strings.TrimSpace(f.Label); l != "" {
		return l
	}
	return f.Name
}

// Placeholder: опция вида "--Select State--" означает «ничего не выбрано»
func Placeholder(opt string) bool {
	s := strings.TrimSpace(opt)
	return strings.HasPrefix(s, "--") && strings.HasSuffix(s, "--")
}

// HasOption проверяет, что v — одна из выбираемых (не placeholder) опций
func (f Field) HasOption(v string) bool {
	for _, o := range f.Options {
		if o == v && !Placeholder(o) {
			return true
		}
	}
	return false
}

// Form — упорядоченный список полей для одного типа формы
type Form struct {
	Type   string  `yaml:"type" json:"formType"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Field ищет поле по имени
func (f Form) Field(name string) (Field, bool) {
	for _, fd := range f.Fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return Field{}, false
}

// Clone — глубокая копия: схема из каталога неизменяема
func (f Form) Clone() Form {
	out := Form{Type: f.Type, Fields: make([]Field, len(f.Fields))}
	for i, fd := range f.Fields {
		fd.Options = append([]string(nil), fd.Options...)
		out.Fields[i] = fd
	}
	return out
}

// Catalog хранит формы в порядке добавления
type Catalog struct {
	order []string
	forms map[string]Form
}

func NewCatalog() *Catalog {
	return &Catalog{forms: make(map[string]Form)}
}

// Add добавляет форму. Повторный тип заменяет схему, позиция сохраняется.
func (c *Catalog) Add(f Form) {
	if _, ok := c.forms[f.Type]; !ok {
		c.order = append(c.order, f.Type)
	}
	c.forms[f.Type] = f.Clone()
}

// Merge добавляет все формы other по порядку
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	for _, name := range other.order {
		c.Add(other.forms[name])
	}
}

func (c *Catalog) Get(formType string) (Form, bool) {
	f, ok := c.forms[formType]
	if !ok {
		return Form{}, false
	}
	return f.Clone(), true
}

func (c *Catalog) Types() []string {
	return append([]string(nil), c.order...)
}

func (c *Catalog) Len() int { return len(c.order) }
