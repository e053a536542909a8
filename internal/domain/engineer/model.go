package engineer

import "time"

// Engineer is a field engineer account. Name is what appears on asset
// aggregates as the last inspector.
type Engineer struct {
	ID        int       `json:"id"`
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	Password  string    `json:"-"` // bcrypt hash
	CreatedAt time.Time `json:"created_at"`
}
