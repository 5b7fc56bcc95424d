package form

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"dynform/internal/schema"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`) // YYYY-MM-DD

// isEmpty: пустая строка или placeholder-опция dropdown'а
func isEmpty(f schema.Field, raw string) bool {
	v := strings.TrimSpace(raw)
	if v == "" {
		return true
	}
	return f.Type == schema.TypeDropdown && schema.Placeholder(v)
}

// ValidateField проверяет одно значение поля. nil — значение корректно.
func ValidateField(f schema.Field, raw string) *FieldError {
	if isEmpty(f, raw) {
		if f.Required {
			e := ferr(CodeRequired, f.Name, f.DisplayLabel()+" is required")
			return &e
		}
		return nil
	}
	if _, err := coerceValue(f, raw); err != nil {
		code := CodeTypeMismatch
		if f.Type == schema.TypeDropdown {
			code = CodeEnumInvalid
		}
		e := ferr(code, f.Name, f.DisplayLabel()+" "+err.Error())
		return &e
	}
	return nil
}

// ValidateAll проверяет все поля схемы в порядке их объявления.
func ValidateAll(form schema.Form, values map[string]string) []FieldError {
	var errs []FieldError
	for _, f := range form.Fields {
		if fe := ValidateField(f, values[f.Name]); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}

// coerceValue приводит сырое значение к типу поля: number → float64, остальное — строка.
func coerceValue(f schema.Field, raw string) (any, error) {
	s := strings.TrimSpace(raw)
	switch f.Type {
	case schema.TypeNumber:
		return toFloatStrict(s)
	case schema.TypeDate:
		if !dateRe.MatchString(s) {
			return nil, errors.New("must match YYYY-MM-DD")
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return nil, errors.New("is not a valid date")
		}
		return s, nil
	case schema.TypeDropdown:
		if !f.HasOption(s) {
			return nil, errors.New("has an invalid option")
		}
		return s, nil
	case schema.TypePassword:
		// пароль не тримим
		return raw, nil
	default:
		return s, nil
	}
}

func toFloatStrict(s string) (float64, error) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, errors.New("must be a number")
	}
	return n, nil
}

// formatValue — обратное преобразование значения записи в строку для формы.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
