package models

import "strings"

// Session is the authenticated identity for one run. It lives in memory only
// and is never refreshed.
type Session struct {
	AccessToken string `json:"-" yaml:"-"`
	Username    string `json:"username" yaml:"username"`
	TenantID    int64  `json:"tenantId" yaml:"tenantId"`
}

func NewSession(resp LoginResponse) *Session {
	sanitizedAccessToken := strings.Trim(resp.AccessToken, "\n")
	sanitizedAccessToken = strings.Trim(sanitizedAccessToken, " ")

	return &Session{
		AccessToken: sanitizedAccessToken,
		Username:    resp.User.Username,
		TenantID:    resp.User.TenantID,
	}
}

// TokenPrefix returns at most n leading characters of the access token.
func (s *Session) TokenPrefix(n int) string {
	if n < 0 || len(s.AccessToken) <= n {
		return s.AccessToken
	}
	return s.AccessToken[:n]
}
