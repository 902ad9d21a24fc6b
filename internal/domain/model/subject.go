package model

import "time"

type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"` // For API usage
	IsPopular bool      `json:"is_popular"`
	CreatedAt time.Time `json:"created_at"`
}
