package domain

import "time"

type Site struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	CategoryID   int64     `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Catalog is the full listing served on initial page load.
type Catalog struct {
	Categories []Category `json:"categories"`
	Sites      []Site     `json:"sites"`
}
