package schema

import (
	"fmt"
	"strings"
)

// Issue — найденная линтером проблема схемы.
type Issue struct {
	Form    string `json:"form"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("%s: %s (%s)", i.Form, i.Message, i.Code)
	}
	return fmt.Sprintf("%s.%s: %s (%s)", i.Form, i.Field, i.Message, i.Code)
}

const (
	IssueFormTypeEmpty    = "form_type_empty"
	IssueNoFields         = "no_fields"
	IssueNameEmpty        = "field_name_empty"
	IssueNameDuplicate    = "field_name_duplicate"
	IssueTypeUnknown      = "field_type_unknown"
	IssueOptionsMissing   = "dropdown_options_missing"
	IssueOptionsForbidden = "options_not_allowed"
	IssueOptionDuplicate  = "dropdown_option_duplicate"
)

// Lint проверяет базовые противоречия в схеме формы.
func (f Form) Lint() []Issue {
	var issues []Issue
	add := func(field, code, msg string) {
		issues = append(issues, Issue{Form: f.Type, Field: field, Code: code, Message: msg})
	}

	if strings.TrimSpace(f.Type) == "" {
		add("", IssueFormTypeEmpty, "form type must not be empty")
	}
	if len(f.Fields) == 0 {
		add("", IssueNoFields, "form has no fields")
	}

	seen := make(map[string]bool, len(f.Fields))
	for i, fd := range f.Fields {
		name := strings.TrimSpace(fd.Name)
		if name == "" {
			add(fmt.Sprintf("#%d", i), IssueNameEmpty, "field name must not be empty")
			continue
		}
		if seen[name] {
			add(name, IssueNameDuplicate, "duplicate field name")
		}
		seen[name] = true

		if !fd.Type.Known() {
			add(name, IssueTypeUnknown, fmt.Sprintf("unknown field type %q (allowed: text|number|dropdown|date|password)", fd.Type))
			continue
		}

		if fd.Type == TypeDropdown {
			selectable := 0
			opts := make(map[string]bool, len(fd.Options))
			for _, o := range fd.Options {
				if opts[o] {
					add(name, IssueOptionDuplicate, fmt.Sprintf("duplicate option %q", o))
				}
				opts[o] = true
				if !Placeholder(o) {
					selectable++
				}
			}
			if selectable == 0 {
				add(name, IssueOptionsMissing, "dropdown needs at least one selectable option")
			}
		} else if len(fd.Options) > 0 {
			add(name, IssueOptionsForbidden, "options are only allowed on dropdown fields")
		}
	}
	return issues
}

// Lint прогоняет линтер по всем формам каталога.
func (c *Catalog) Lint() []Issue {
	var issues []Issue
	for _, name := range c.order {
		issues = append(issues, c.forms[name].Lint()...)
	}
	return issues
}
