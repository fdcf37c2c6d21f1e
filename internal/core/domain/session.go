package domain

import "strings"

// TokenPair is the credential pair issued by the Modelstash API. The access
// token is short-lived and attached to each request; the refresh token is
// exchanged for a new pair and rotated on every use.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// IsZero reports whether the pair carries no credentials at all.
func (p TokenPair) IsZero() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// MaskToken renders a token safe for terminal display, keeping just enough
// of each end to be recognizable.
func MaskToken(token string) string {
	if token == "" {
		return "(none)"
	}
	if len(token) <= 10 {
		return strings.Repeat("*", len(token))
	}
	return token[:6] + "..." + token[len(token)-4:]
}
