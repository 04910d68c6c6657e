package dto

// LoginRequest carries the shop owner's PIN.
type LoginRequest struct {
	PIN string `json:"pin" validate:"required,min=4"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
