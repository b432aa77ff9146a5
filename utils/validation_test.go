package utils

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phoneRequest struct {
	Phone string `binding:"omitempty,phone"`
	Email string `binding:"required,email"`
	Slug  string `binding:"omitempty,slug"`
}

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())

	ok := phoneRequest{Phone: "+60 12-345 6789", Email: "a@b.co", Slug: "hello-world"}
	assert.NoError(t, binding.Validator.ValidateStruct(&ok))

	bad := phoneRequest{Phone: "call me", Email: "nope", Slug: "Hello World"}
	err := binding.Validator.ValidateStruct(&bad)
	require.Error(t, err)

	fields := DescribeValidationError(err)
	assert.Len(t, fields, 3)
	assert.Equal(t, "Phone", fields[0].Field)
	assert.Equal(t, "must be a valid phone number", fields[0].Message)
	assert.Equal(t, "must be a valid email address", fields[1].Message)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("<b>hello</b>"))
	assert.Equal(t, "Tom &amp; Jerry", SanitizeString(" Tom & Jerry "))
	assert.Equal(t, "x", SanitizeString(`<img onerror="alert(1)">x`))
}
