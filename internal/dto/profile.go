package dto

import "time"

// ProfilePayload is returned from code redemption; it includes the Telegram
// identity so the client can associate the profile with its bot account.
type ProfilePayload struct {
	ID          string `json:"id"`
	TelegramID  int64  `json:"telegramId"`
	DisplayName string `json:"displayName"`
	Username    string `json:"username,omitempty"`
	Quote       string `json:"quote,omitempty"`
	ShortCode   string `json:"shortCode,omitempty"`
	Role        string `json:"role"`
}

// PublicProfile is the lookup-by-id shape; the Telegram identity is internal
// and never exposed on the public read path.
type PublicProfile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Username    string    `json:"username,omitempty"`
	Quote       string    `json:"quote,omitempty"`
	ShortCode   string    `json:"shortCode,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ProfileResponse struct {
	Profile PublicProfile `json:"profile"`
}
