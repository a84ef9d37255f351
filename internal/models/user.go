package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"column:username;unique;not null"`
	Password     string `json:"-" gorm:"-:migration"` // Temporary field for password handling
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	Role         string `json:"role" gorm:"column:role;not null;default:user"`
	FullName     string `json:"fullName" gorm:"column:full_name"`
	Phone        string `json:"phone" gorm:"column:phone"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
