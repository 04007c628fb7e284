package models

import "time"

// User представляет пользователя магазина
type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	UserName   string    `json:"username"`
	PassHash   []byte    `json:"-"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	Country    string    `json:"country,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	LastSignIn time.Time `json:"last_sign_in"`
	UpdatedAt  time.Time `json:"updated_at"`
}
