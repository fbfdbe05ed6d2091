// Package domain defines the core entities of the todo service.
package domain

import "time"

// Todo is a single todo item. Every item belongs to exactly one account and
// is only ever visible to that account.
type Todo struct {
	ID        string    `json:"id"`
	AccountID string    `json:"-"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
