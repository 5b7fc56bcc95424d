// Package render — серверная отрисовка страницы с динамической формой.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"dynform/internal/form"
	"dynform/internal/schema"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const DefaultTitle = "Dynamic Form"

// Page — данные для шаблона.
type Page struct {
	Title     string
	Year      int
	FormTypes []string
	State     form.State
}

func NewPage(formTypes []string, st form.State) Page {
	return Page{
		Title:     DefaultTitle,
		Year:      time.Now().Year(),
		FormTypes: formTypes,
		State:     st,
	}
}

var funcs = template.FuncMap{
	"percent": func(p float64) template.CSS {
		return template.CSS(fmt.Sprintf("%.2f%%", p))
	},
	// cell: значение записи; пароли приходят из снимка уже замаскированными
	"cell": func(e form.Entry, f schema.Field) string {
		return e.Display(f.Name)
	},
}

// Templates парсит встроенные шаблоны.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl")
}

// MustTemplates — как Templates, но паникует (шаблоны встроены в бинарник).
func MustTemplates() *template.Template {
	t, err := Templates()
	if err != nil {
		panic(err)
	}
	return t
}
