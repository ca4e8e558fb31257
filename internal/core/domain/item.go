package domain

import "time"

type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"item"`
	Quantity  int       `json:"quantity"`
	Location  string    `json:"location,omitempty"` // empty means absent
	UpdatedAt time.Time `json:"updated_at"`
}
