// Package model defines domain entities for the application.
package model

// Sample is a row of the sample table. Name is nullable.
type Sample struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}
