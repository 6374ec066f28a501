// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"unicode/utf8"
)

// MaxNameLength bounds first_name and last_name.
const MaxNameLength = 50

// DefaultImageURL is stored for users created without an image.
const DefaultImageURL = "/static/default.jpg"

// User is a blog author. Posts reference it through Post.UserID; there is no
// Posts collection on the struct, callers list them explicitly.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"size:50;not null" json:"first_name"`
	LastName  string `gorm:"size:50;not null" json:"last_name"`
	ImageURL  string `gorm:"not null" json:"image_url"`
}

// FullName returns "first last".
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Validate checks the columns the schema marks as required.
func (u *User) Validate() error {
	if u.FirstName == "" {
		return NewConstraintError("First name is required", nil)
	}
	if u.LastName == "" {
		return NewConstraintError("Last name is required", nil)
	}
	if utf8.RuneCountInString(u.FirstName) > MaxNameLength {
		return NewConstraintError("First name too long (max 50 characters)", nil)
	}
	if utf8.RuneCountInString(u.LastName) > MaxNameLength {
		return NewConstraintError("Last name too long (max 50 characters)", nil)
	}
	if u.ImageURL == "" {
		u.ImageURL = DefaultImageURL
	}
	return nil
}
