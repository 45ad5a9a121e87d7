package domain

import "time"

// Course scopes conversations: the same two users get a separate thread per
// course. Course authoring is owned by the course subsystem; messaging only
// resolves ids.
type Course struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Title     string    `gorm:"column:title;size:255" json:"title"`
	MentorID  string    `gorm:"column:mentor_id;size:36;index" json:"mentor_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Course) TableName() string {
	return "courses"
}
