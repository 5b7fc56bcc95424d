package form

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrEntryNotFound = errors.New("entry not found")
	ErrNoForm        = errors.New("no form selected")
)

// FieldError — ошибка валидации одного поля.
type FieldError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Коды ошибок
const (
	CodeRequired     = "required"
	CodeTypeMismatch = "type_mismatch"
	CodeEnumInvalid  = "enum_invalid"
)

func ferr(code, field, msg string) FieldError {
	return FieldError{Code: code, Field: field, Message: msg}
}

// ValidationError возвращается из Submit, если форма не прошла проверку.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Message
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return fmt.Sprintf("%d fields are invalid: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Errors — карта «имя поля → сообщение».
type Errors map[string]string

func (e Errors) clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
