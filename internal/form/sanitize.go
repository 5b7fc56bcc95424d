package form

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"dynform/internal/schema"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeValue вырезает разметку из текстовых значений. Пароль не трогаем.
func sanitizeValue(f schema.Field, raw string) string {
	if f.Type == schema.TypePassword || !strings.ContainsAny(raw, "<>") {
		return raw
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	// bluemonday экранирует &, " и т.п. — шаблон экранирует сам
	return html.UnescapeString(textPolicy.Sanitize(raw))
}
