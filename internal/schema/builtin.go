package schema

import (
	_ "embed"
)

//go:embed builtin/forms.yaml
var builtinYAML []byte

const DefaultFormType = "User Information"

// Builtin возвращает встроенный каталог (User / Address / Payment Information).
func Builtin() *Catalog {
	c, err := ParseCatalog(builtinYAML)
	if err != nil {
		panic("schema: builtin catalog: " + err.Error())
	}
	return c
}
