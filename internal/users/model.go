package users

import (
	"time"
)

// User is a researcher account. Registration, login and ORCID OAuth are
// handled by a separate service; this API only reads the table.
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName string    `gorm:"size:100;column:firstname" json:"firstname"`
	LastName  string    `gorm:"size:100;column:lastname" json:"lastname"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"size:50;default:'User'" json:"role"`
	OrcidID   *string   `gorm:"size:19;column:orcid_id" json:"orcid_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserRef is the shape embedded in project and dataset responses.
type UserRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, Email: u.Email}
}
