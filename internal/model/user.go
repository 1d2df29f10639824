package model

import "time"

const (
	DefaultUserName   = "Jacques-Yves Cousteau"
	DefaultUserAbout  = "Explorer"
	DefaultUserAvatar = "https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:24" json:"_id"`
	Name         string    `gorm:"size:30;not null" json:"name" validate:"min=2,max=30"`
	About        string    `gorm:"size:30;not null" json:"about" validate:"min=2,max=30"`
	Avatar       string    `gorm:"size:2048;not null" json:"avatar" validate:"httpurl"`
	Email        string    `gorm:"size:254;not null;uniqueIndex" json:"email" validate:"required,email"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// ApplyDefaults fills the optional profile fields left empty at signup.
func (u *User) ApplyDefaults() {
	if u.Name == "" {
		u.Name = DefaultUserName
	}
	if u.About == "" {
		u.About = DefaultUserAbout
	}
	if u.Avatar == "" {
		u.Avatar = DefaultUserAvatar
	}
}
