package models

import "time"

// Post belongs to exactly one User and carries any number of Tags through
// the posts_tags join table.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Tags      []Tag     `gorm:"many2many:posts_tags;" json:"tags"`
}

// Validate checks the columns the schema marks as required.
func (p *Post) Validate() error {
	if p.Title == "" {
		return NewConstraintError("Title is required", nil)
	}
	if p.Content == "" {
		return NewConstraintError("Content is required", nil)
	}
	if p.UserID == 0 {
		return NewConstraintError("Post must belong to a user", nil)
	}
	return nil
}

// FriendlyDate formats CreatedAt the way the post pages show it.
func (p Post) FriendlyDate() string {
	return p.CreatedAt.Local().Format("Mon Jan 2, 2006, 3:04 PM")
}

// HasTag reports whether the tag with the given id is attached.
func (p Post) HasTag(tagID uint) bool {
	for _, t := range p.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// PostTag is one row of the posts_tags association.
type PostTag struct {
	PostID uint `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false;index" json:"tag_id"`
}

// TableName returns the database table name for PostTag.
func (PostTag) TableName() string {
	return "posts_tags"
}
