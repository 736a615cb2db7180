package dto

import "time"

type GenerateCodeRequest struct {
	TelegramID  int64  `json:"telegramId"`
	DisplayName string `json:"displayName"`
	Username    string `json:"username,omitempty"`
	Quote       string `json:"quote,omitempty"`
	ShortCode   string `json:"shortCode,omitempty"`
}

type GenerateCodeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type VerifyCodeRequest struct {
	Code string `json:"code"`
}

type VerifyCodeResponse struct {
	Profile ProfilePayload `json:"profile"`
}
