package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSL(t *testing.T) {
	src := `
# address form
form "Address Information":
  street: text "Street" required
  state: dropdown["--Select State--", California, "New York"] "State" required  # states
  zipCode: text label='Zip Code'

form Feedback:
  rating: number "Rating"
`
	c, err := ParseDSL(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"Address Information", "Feedback"}, c.Types())

	addr, ok := c.Get("Address Information")
	require.True(t, ok)
	want := []Field{
		{Name: "street", Type: TypeText, Label: "Street", Required: true},
		{Name: "state", Type: TypeDropdown, Label: "State", Required: true,
			Options: []string{"--Select State--", "California", "New York"}},
		{Name: "zipCode", Type: TypeText, Label: "Zip Code"},
	}
	if diff := cmp.Diff(want, addr.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	fb, ok := c.Get("Feedback")
	require.True(t, ok)
	require.Len(t, fb.Fields, 1)
	assert.Equal(t, TypeNumber, fb.Fields[0].Type)
}

func TestParseDSLErrors(t *testing.T) {
	cases := map[string]string{
		"field outside form": "name: text",
		"unknown flag":       "form X:\n  a: text bogus",
		"unterminated list":  "form X:\n  a: dropdown[\"a b\", c",
		"garbage line":       "form X:\n  ???",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDSL(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestBuiltinCatalog(t *testing.T) {
	c := Builtin()
	assert.Equal(t, []string{"User Information", "Address Information", "Payment Information"}, c.Types())
	assert.Empty(t, c.Lint())

	user, ok := c.Get(DefaultFormType)
	require.True(t, ok)
	names := make([]string, 0, len(user.Fields))
	for _, f := range user.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"firstName", "lastName", "age"}, names)

	pay, _ := c.Get("Payment Information")
	cvv, ok := pay.Field("cvv")
	require.True(t, ok)
	assert.Equal(t, TypePassword, cvv.Type)
	assert.True(t, cvv.Required)

	addr, _ := c.Get("Address Information")
	state, _ := addr.Field("state")
	assert.True(t, state.HasOption("Texas"))
	assert.False(t, state.HasOption("--Select State--"))
}

func TestCatalogGetReturnsCopy(t *testing.T) {
	c := Builtin()
	addr, _ := c.Get("Address Information")
	addr.Fields[2].Options[1] = "Nevada"
	addr.Fields[0].Label = "changed"

	again, _ := c.Get("Address Information")
	assert.Equal(t, "California", again.Fields[2].Options[1])
	assert.Equal(t, "Street", again.Fields[0].Label)
}

func TestLint(t *testing.T) {
	f := Form{
		Type: "Broken",
		Fields: []Field{
			{Name: "a", Type: TypeText},
			{Name: "a", Type: TypeText},
			{Name: "", Type: TypeText},
			{Name: "b", Type: "color"},
			{Name: "c", Type: TypeDropdown, Options: []string{"--Pick--"}},
			{Name: "d", Type: TypeNumber, Options: []string{"1"}},
		},
	}
	codes := map[string]bool{}
	for _, is := range f.Lint() {
		codes[is.Code] = true
	}
	for _, c := range []string{IssueNameDuplicate, IssueNameEmpty, IssueTypeUnknown, IssueOptionsMissing, IssueOptionsForbidden} {
		assert.True(t, codes[c], "expected issue %s", c)
	}

	assert.NotEmpty(t, Form{Type: ""}.Lint())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(`
forms:
  - type: Contact
    fields:
      - { name: email, type: TEXT, label: Email, required: true }
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.form"), []byte(`
form "Survey":
  score: number "Score"
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	c, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Contact", "Survey"}, c.Types())
	contact, _ := c.Get("Contact")
	assert.Equal(t, TypeText, contact.Fields[0].Type)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.form"), []byte("form Contact:\n  x: text\n"), 0o644))
	_, err = LoadDir(dir)
	assert.ErrorContains(t, err, "duplicate form type")
}
