package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FirstName    string         `gorm:"size:150" json:"first_name"`
	LastName     string         `gorm:"size:150" json:"last_name"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserFollow is one row of the asymmetric follow relation. The composite
// unique index makes concurrent duplicate follows a constraint violation
// rather than a second row.
type UserFollow struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey;check:chk_no_self_follow,follower_id <> followee_id" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	FollowerID uuid.UUID `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID uuid.UUID `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_follower_followee" json:"followee_id"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}

func (f *UserFollow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
