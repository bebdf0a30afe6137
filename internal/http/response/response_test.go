package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"isPremium": true})
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("invalid request body")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "invalid request body", resp.Error)
}

func TestValidationError(t *testing.T) {
	type req struct {
		Email string `validate:"required,email"`
	}

	v := validator.New()

	err := v.Struct(req{Email: "not-an-email"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email must be a valid email address")

	err = v.Struct(req{})
	require.Error(t, err)

	resp = ValidationError(err.(validator.ValidationErrors))
	assert.Contains(t, resp.Error, "field Email is a required field")
}
