package models

import (
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		in        PostInput
		jsonField string
		formField string
	}{
		{name: "valid", in: PostInput{Title: "Hello", Content: "World"}},
		{name: "missing title", in: PostInput{Content: "x"}, jsonField: "title", formField: "title"},
		{name: "missing content", in: PostInput{Title: "x"}, jsonField: "content", formField: "content"},
		{name: "title of 20", in: PostInput{Title: strings.Repeat("a", 20), Content: "x"}},
		{name: "title of 21", in: PostInput{Title: strings.Repeat("a", 21), Content: "x"}, formField: "title"},
		{name: "title of 50", in: PostInput{Title: strings.Repeat("a", 50), Content: "x"}, formField: "title"},
		{name: "title of 51", in: PostInput{Title: strings.Repeat("a", 51), Content: "x"}, jsonField: "title", formField: "title"},
		{name: "multibyte title of 20 runes", in: PostInput{Title: strings.Repeat("é", 20), Content: "x"}},
		{name: "content of 255", in: PostInput{Title: "t", Content: strings.Repeat("c", 255)}},
		{name: "content of 256", in: PostInput{Title: "t", Content: strings.Repeat("c", 256)}, jsonField: "content", formField: "content"},
	}

	check := func(t *testing.T, err error, field string) {
		if field == "" {
			assert.NoError(t, err)
			return
		}
		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs, field)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check(t, tt.in.Validate(), tt.jsonField)
			check(t, tt.in.ValidateForm(), tt.formField)
		})
	}
}

func TestValidatePostID(t *testing.T) {
	valid := []string{
		"0123456789abcdef01234567",
		"ABCDEF0123456789ABCDEF01",
	}
	for _, id := range valid {
		assert.NoError(t, ValidatePostID(id), id)
	}

	invalid := []string{
		"",
		"0123456789abcdef0123456",
		"0123456789abcdef012345678",
		"0123456789abcdef0123456g",
		"../../etc/passwd",
	}
	for _, id := range invalid {
		assert.Error(t, ValidatePostID(id), id)
	}
}

func TestValidateTitleFilter(t *testing.T) {
	assert.NoError(t, ValidateTitleFilter("hello"))
	assert.Error(t, ValidateTitleFilter(""))
	assert.NoError(t, ValidateTitleFilter(strings.Repeat("x", 255)))
	assert.Error(t, ValidateTitleFilter(strings.Repeat("x", 256)))
}
