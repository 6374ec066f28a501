package models

// Tag is a unique label attached to posts.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// Validate checks the columns the schema marks as required.
func (t *Tag) Validate() error {
	if t.Name == "" {
		return NewConstraintError("Tag name is required", nil)
	}
	return nil
}
