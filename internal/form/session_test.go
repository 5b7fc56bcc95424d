package form

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynform/internal/provider"
	"dynform/internal/schema"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newSession(t *testing.T, formType string) (*Session, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s := New(provider.NewStatic(schema.Builtin()), WithClock(clk.Now))
	require.NoError(t, s.SelectFormType(context.Background(), formType))
	return s, clk
}

func fieldNames(fields []schema.Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Name)
	}
	return out
}

func TestSelectFormTypePopulatesFields(t *testing.T) {
	s, _ := newSession(t, "Address Information")
	st := s.Snapshot(false)
	assert.Equal(t, "Address Information", st.FormType)
	assert.Equal(t, []string{"street", "city", "state", "zipCode"}, fieldNames(st.Fields))

	require.NoError(t, s.SetValue("street", "Main st"))
	require.NoError(t, s.SelectFormType(context.Background(), "Payment Information"))
	st = s.Snapshot(false)
	assert.Equal(t, []string{"cardNumber", "expiryDate", "cvv", "cardholderName"}, fieldNames(st.Fields))
	assert.Empty(t, st.Values)
}

func TestSelectUnknownFormKeepsPrevious(t *testing.T) {
	s, _ := newSession(t, schema.DefaultFormType)
	err := s.SelectFormType(context.Background(), "Nope")
	require.ErrorIs(t, err, provider.ErrFormTypeNotFound)

	st := s.Snapshot(false)
	assert.Equal(t, schema.DefaultFormType, st.FormType)
	assert.Len(t, st.Fields, 3)
	require.NotNil(t, st.Message)
	assert.Equal(t, MessageError, st.Message.Kind)
}

func TestSubmitRequiredFieldBlocks(t *testing.T) {
	s, _ := newSession(t, schema.DefaultFormType)
	require.NoError(t, s.SetValue("firstName", "Ada"))

	_, err := s.Submit()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, CodeRequired, verr.Errors[0].Code)
	assert.Equal(t, "lastName", verr.Errors[0].Field)

	st := s.Snapshot(false)
	assert.Equal(t, "Last Name is required", st.Errors["lastName"])
	assert.Empty(t, st.Entries)
	assert.Equal(t, "Ada", st.Values["firstName"])
}

func TestSubmitValidAppendsAndClears(t *testing.T) {
	s, _ := newSession(t, schema.DefaultFormType)
	require.NoError(t, s.SetValues(map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"age":       "36",
	}))

	res, err := s.Submit()
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, 36.0, res.Entry.Values["age"])
	assert.NotEmpty(t, res.Entry.ID)

	st := s.Snapshot(false)
	require.Len(t, st.Entries, 1)
	assert.Equal(t, schema.DefaultFormType, st.Entries[0].FormType)
	assert.Empty(t, st.Values)
	assert.Empty(t, st.Errors)
	assert.Equal(t, 0.0, st.Progress)
	require.NotNil(t, st.Message)
	assert.Equal(t, "Entry added", st.Message.Text)
}

func TestSubmitOmitsEmptyOptional(t *testing.T) {
	s, _ := newSession(t, schema.DefaultFormType)
	require.NoError(t, s.SetValues(map[string]string{"firstName": "A", "lastName": "B", "age": ""}))
	res, err := s.Submit()
	require.NoError(t, err)
	_, has := res.Entry.Values["age"]
	assert.False(t, has)
}

func TestEditReplacesInPlace(t *testing.T) {
	s, _ := newSession(t, schema.DefaultFormType)
	for _, name := range []string{"Ada", "Grace", "Linus"} {
		require.NoError(t, s.SetValues(map[string]string{"firstName": name, "lastName": "X"}))
		_, err := s.Submit()
		require.NoError(t, err)
	}
	before := s.Snapshot(false).Entries

	require.NoError(t, s.Edit(context.Background(), 1))
	st := s.Snapshot(false)
	assert.Equal(t, 1, st.Editing)
	assert.Equal(t, "Grace", st.Values["firstName"])
	assert.Equal(t, "X", st.Values["lastName"])

	require.NoError(t, s.SetValue("lastName", "Hopper"))
	res, err := s.Submit()
	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.Equal(t, 1, res.Index)

	after := s.Snapshot(false)
	require.Len(t, after.Entries, 3)
	assert.Equal(t, before[1].ID, after.Entries[1].ID)
	assert.Equal(t, "Hopper", after.Entries[1].Values["lastName"])
	assert.Equal(t, "Ada", after.Entries[0].Values["firstName"])
	assert.Equal(t, "Linus", after.Entries[2].Values["firstName"])
	assert.Equal(t, -1, after.Editing)
	assert.Equal(t, "Entry updated", after.Message.Text)
}

func TestEditNumberRoundTrip(t *testing.T) {
	s, _ := newSession(t, schema.DefaultFormType)
	require.NoError(t, s.SetValues(map[string]string{"firstName": "A", "lastName": "B", "age": "41.5"}))
	_, err := s.Submit()
	require.NoError(t, err)

	require.NoError(t, s.Edit(context.Background(), 0))
	assert.Equal(t, "41.5", s.Snapshot(false).Values["age"])
}

func TestEditSwitchesFormType(t *testing.T) {
	s, _ := newSession(t, schema.DefaultFormType)
	require.NoError(t, s.SetValues(map[string]string{"firstName": "A", "lastName": "B"}))
	_, err := s.Submit()
	require.NoError(t, err)

	require.NoError(t, s.SelectFormType(context.Background(), "Address Information"))
	require.NoError(t, s.Edit(context.Background(), 0))

	st := s.Snapshot(false)
	assert.Equal(t, schema.DefaultFormType, st.FormType)
	assert.Equal(t, "A", st.Values["firstName"])
	assert.Equal(t, 0, st.Editing)
}

func TestDeleteByIndex(t *testing.T) {
	s, _ := newSession(t, schema.DefaultFormType)
	for _, name := range []string{"Ada", "Grace", "Linus"} {
		require.NoError(t, s.SetValues(map[string]string{"firstName": name, "lastName": "X"}))
		_, err := s.Submit()
		require.NoError(t, err)
	}

	require.NoError(t, s.Delete(1))
	st := s.Snapshot(false)
	require.Len(t, st.Entries, 2)
	assert.Equal(t, "Ada", st.Entries[0].Values["firstName"])
	assert.Equal(t, "Linus", st.Entries[1].Values["firstName"])

	assert.ErrorIs(t, s.Delete(5), ErrEntryNotFound)
	assert.ErrorIs(t, s.Delete(-1), ErrEntryNotFound)
}

func TestDeleteAdjustsEditing(t *testing.T) {
	s, _ := newSession(t, schema.DefaultFormType)
	for _, name := range []string{"Ada", "Grace", "Linus"} {
		require.NoError(t, s.SetValues(map[string]string{"firstName": name, "lastName": "X"}))
		_, err := s.Submit()
		require.NoError(t, err)
	}

	require.NoError(t, s.Edit(context.Background(), 2))
	require.NoError(t, s.Delete(0))
	assert.Equal(t, 1, s.Snapshot(false).Editing)

	require.NoError(t, s.Delete(1))
	st := s.Snapshot(false)
	assert.Equal(t, -1, st.Editing)
	assert.Empty(t, st.Values)
}

func TestSetValueValidation(t *testing.T) {
	s, _ := newSession(t, "Address Information")

	require.NoError(t, s.SetValue("city", ""))
	assert.Equal(t, "City is required", s.Snapshot(false).Errors["city"])

	require.NoError(t, s.SetValue("city", "Austin"))
	assert.NotContains(t, s.Snapshot(false).Errors, "city")

	require.NoError(t, s.SetValue("state", "--Select State--"))
	assert.Equal(t, "State is required", s.Snapshot(false).Errors["state"])

	require.NoError(t, s.SetValue("state", "Ohio"))
	assert.Equal(t, "State has an invalid option", s.Snapshot(false).Errors["state"])

	require.NoError(t, s.SetValue("zipCode", ""))
	assert.NotContains(t, s.Snapshot(false).Errors, "zipCode")

	assert.ErrorIs(t, s.SetValue("country", "US"), ErrUnknownField)
	assert.ErrorIs(t, s.SetValues(map[string]string{"city": "X", "bogus": "1"}), ErrUnknownField)
	assert.Equal(t, "Austin", s.Snapshot(false).Values["city"])
}

func TestTypeChecks(t *testing.T) {
	s, _ := newSession(t, "Payment Information")
	require.NoError(t, s.SetValue("expiryDate", "2025-13-01"))
	assert.Equal(t, "Expiry Date is not a valid date", s.Snapshot(false).Errors["expiryDate"])
	require.NoError(t, s.SetValue("expiryDate", "01/02/2025"))
	assert.Equal(t, "Expiry Date must match YYYY-MM-DD", s.Snapshot(false).Errors["expiryDate"])

	require.NoError(t, s.SelectFormType(context.Background(), schema.DefaultFormType))
	require.NoError(t, s.SetValue("age", "forty"))
	assert.Equal(t, "Age must be a number", s.Snapshot(false).Errors["age"])
}

func TestProgress(t *testing.T) {
	s, _ := newSession(t, "Address Information")
	assert.Equal(t, 0.0, s.Progress())
	require.NoError(t, s.SetValue("street", "Main"))
	assert.Equal(t, 25.0, s.Progress())
	require.NoError(t, s.SetValue("state", "--Select State--"))
	assert.Equal(t, 25.0, s.Progress())
	require.NoError(t, s.SetValues(map[string]string{"city": "A", "state": "Texas", "zipCode": "1"}))
	assert.Equal(t, 100.0, s.Progress())

	empty := New(provider.NewStatic(schema.NewCatalog()))
	assert.Equal(t, 0.0, empty.Progress())
}

func TestMessageExpires(t *testing.T) {
	s, clk := newSession(t, schema.DefaultFormType)
	require.NoError(t, s.SetValues(map[string]string{"firstName": "A", "lastName": "B"}))
	_, err := s.Submit()
	require.NoError(t, err)

	m, ok := s.Message()
	require.True(t, ok)
	assert.Equal(t, MessageSuccess, m.Kind)

	clk.Advance(DefaultMessageTTL)
	_, ok = s.Message()
	assert.False(t, ok)
}

func TestTakeMessageFlash(t *testing.T) {
	s, _ := newSession(t, schema.DefaultFormType)
	_, err := s.Submit()
	require.Error(t, err)

	st := s.Snapshot(true)
	require.NotNil(t, st.Message)
	assert.Equal(t, MessageError, st.Message.Kind)
	_, ok := s.TakeMessage()
	assert.False(t, ok)
}

func TestSubmitWithoutForm(t *testing.T) {
	s := New(provider.NewStatic(schema.Builtin()))
	_, err := s.Submit()
	assert.ErrorIs(t, err, ErrNoForm)
}

func TestSanitizesText(t *testing.T) {
	s, _ := newSession(t, schema.DefaultFormType)
	require.NoError(t, s.SetValue("firstName", `<b>Tom</b> & <script>alert(1)</script>Jerry`))
	assert.Equal(t, "Tom & Jerry", s.Snapshot(false).Values["firstName"])

	require.NoError(t, s.SelectFormType(context.Background(), "Payment Information"))
	require.NoError(t, s.SetValue("cvv", "<1>"))
	assert.Equal(t, "<1>", s.values["cvv"])
}

func TestPasswordsMaskedInSnapshot(t *testing.T) {
	s, _ := newSession(t, "Payment Information")
	require.NoError(t, s.SetValues(map[string]string{
		"cardNumber":     "4111",
		"expiryDate":     "2027-01-31",
		"cvv":            "123",
		"cardholderName": "Ada",
	}))

	st := s.Snapshot(false)
	assert.NotContains(t, st.Values, "cvv")
	assert.Equal(t, "Ada", st.Values["cardholderName"])
	assert.Equal(t, 100.0, st.Progress)

	res, err := s.Submit()
	require.NoError(t, err)
	assert.Equal(t, PasswordMask, res.Entry.Values["cvv"])

	st = s.Snapshot(false)
	require.Len(t, st.Entries, 1)
	assert.Equal(t, PasswordMask, st.Entries[0].Values["cvv"])
	assert.Equal(t, "4111", st.Entries[0].Values["cardNumber"])

	// при редактировании подставляется настоящее значение
	require.NoError(t, s.Edit(context.Background(), 0))
	assert.Equal(t, "123", s.values["cvv"])
	assert.NotContains(t, s.Snapshot(false).Values, "cvv")
}
