package sl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	attr := Err(errors.New("connection refused"))
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "connection refused", attr.Value.String())
}

func TestSecret(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "длинное значение маскируется", value: "sk_live_abcdef123456", want: "sk_l..."},
		{name: "короткое значение полностью скрыто", value: "abc", want: "..."},
		{name: "пустое значение", value: "", want: "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := Secret("token", tt.value)
			assert.Equal(t, "token", attr.Key)
			assert.Equal(t, tt.want, attr.Value.String())
		})
	}
}
