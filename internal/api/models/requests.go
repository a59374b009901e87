package models

type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	TenantCode string `json:"tenantCode"`
}

type LoginUser struct {
	ID         int64  `json:"id,omitempty"`
	Username   string `json:"username"`
	RealName   string `json:"realName,omitempty"`
	TenantID   int64  `json:"tenantId"`
	TenantName string `json:"tenantName,omitempty"`
}

type LoginResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	TokenType    string    `json:"tokenType,omitempty"`
	ExpiresIn    int64     `json:"expiresIn,omitempty"`
	User         LoginUser `json:"user"`
}
