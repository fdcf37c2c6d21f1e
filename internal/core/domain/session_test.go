package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenPair_IsZero(t *testing.T) {
	assert.True(t, TokenPair{}.IsZero())
	assert.False(t, TokenPair{AccessToken: "a"}.IsZero())
	assert.False(t, TokenPair{RefreshToken: "r"}.IsZero())
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "empty", token: "", want: "(none)"},
		{name: "short token fully masked", token: "abcdef", want: "******"},
		{name: "long token keeps ends", token: "sk_live_abcdef123456", want: "sk_liv...3456"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MaskToken(tc.token))
		})
	}
}

func TestMaskToken_NeverLeaksMiddle(t *testing.T) {
	token := "sk_live_supersecretvalue_9999"
	masked := MaskToken(token)
	assert.NotContains(t, masked, "supersecret")
}
