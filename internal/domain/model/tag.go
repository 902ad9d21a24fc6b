package model

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
