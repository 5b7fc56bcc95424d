package cli

import (
	"context"
	"errors"
	"fmt"

	"dynform/internal/form"
	"dynform/internal/schema"
)

// maxAttempts ограничивает повторные круги по невалидным полям.
const maxAttempts = 3

// Fill опрашивает поля текущей формы сессии и отправляет её.
// Поля, не прошедшие проверку при отправке, спрашиваются повторно.
func Fill(ctx context.Context, d PromptDriver, sess *form.Session) (form.SubmitResult, error) {
	st := sess.Snapshot(false)
	if st.FormType == "" {
		return form.SubmitResult{}, form.ErrNoForm
	}

	pending := st.Fields
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		for _, f := range pending {
			v, err := ask(ctx, d, f, st.Values[f.Name])
			if err != nil {
				return form.SubmitResult{}, err
			}
			if err := sess.SetValue(f.Name, v); err != nil {
				return form.SubmitResult{}, err
			}
		}

		res, err := sess.Submit()
		if err == nil {
			return res, nil
		}
		var verr *form.ValidationError
		if !errors.As(err, &verr) {
			return form.SubmitResult{}, err
		}
		st = sess.Snapshot(false)
		pending = nil
		for _, fe := range verr.Errors {
			if f, ok := fieldByName(st.Fields, fe.Field); ok {
				pending = append(pending, f)
			}
		}
		lastErr = verr
	}
	return form.SubmitResult{}, fmt.Errorf("giving up after %d attempts: %w", maxAttempts, lastErr)
}

func fieldByName(fields []schema.Field, name string) (schema.Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return schema.Field{}, false
}

func ask(ctx context.Context, d PromptDriver, f schema.Field, current string) (string, error) {
	msg := f.DisplayLabel()
	if f.Required {
		msg += " *"
	}
	validate := func(v string) error {
		if fe := form.ValidateField(f, v); fe != nil {
			return errors.New(fe.Message)
		}
		return nil
	}

	switch f.Type {
	case schema.TypeDropdown:
		return d.Select(ctx, SelectConfig{Message: msg, Options: f.Options, Default: current})
	case schema.TypePassword:
		return d.Password(ctx, InputConfig{Message: msg, Validator: validate})
	case schema.TypeDate:
		return d.Input(ctx, InputConfig{Message: msg, Default: current, Help: "YYYY-MM-DD", Validator: validate})
	default:
		return d.Input(ctx, InputConfig{Message: msg, Default: current, Validator: validate})
	}
}
