package models

import "time"

// Student is a roster entry. A freshly registered student is pending until a
// teacher approves them; only approved students are eligible to appear in
// result reports.
type Student struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FullName   string    `gorm:"size:255;not null" json:"full_name"`
	Email      string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PRN        string    `gorm:"size:64;uniqueIndex;not null" json:"prn"`
	Year       string    `gorm:"size:32" json:"year"`
	IsApproved bool      `gorm:"not null;default:false" json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
