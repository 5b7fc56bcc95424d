package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"dynform/internal/form"
	"dynform/internal/provider"
)

// statusForError: 422 валидация, 404 не найдено, 409 нет формы, 504 таймаут.
func statusForError(err error) int {
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, form.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, form.ErrEntryNotFound), errors.Is(err, provider.ErrFormTypeNotFound):
		return http.StatusNotFound
	case errors.Is(err, form.ErrNoForm):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Errors})
		return
	}
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// parseIndex читает :index из пути.
func parseIndex(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("index"))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// stringify приводит JSON-значение к строке поля ввода.
func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v)), false
	}
}

func toRawValues(obj map[string]any) (map[string]string, []form.FieldError) {
	out := make(map[string]string, len(obj))
	var errs []form.FieldError
	for k, v := range obj {
		s, ok := stringify(v)
		if !ok {
			errs = append(errs, form.FieldError{
				Code:    form.CodeTypeMismatch,
				Field:   k,
				Message: "Field '" + k + "' must be a scalar",
			})
			continue
		}
		out[k] = s
	}
	return out, errs
}
