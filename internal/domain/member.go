package domain

import "time"

// Member is a registered user. Identity and authentication are owned by the
// auth subsystem; the messaging layer only resolves ids against this table.
type Member struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name      string    `gorm:"column:name;size:100" json:"name"`
	Email     string    `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	Role      string    `gorm:"column:role;size:20" json:"role"` // "student" or "mentor"
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Member) TableName() string {
	return "members"
}
