package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleMechanic Role = "MECHANIC"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	gorm.Model
	Name         string `json:"name" gorm:"column:name;not null"`
	Email        string `json:"email" gorm:"column:email;unique;not null"`
	Password     string `json:"-" gorm:"-"` // Temporary field for password handling
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	Phone        string `json:"phone" gorm:"column:phone"`
	Address      string `json:"address" gorm:"column:address"`
	Role         Role   `json:"role" gorm:"column:role;not null;default:'CLIENT'"`
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

// IsMechanic reports whether the user may produce quotes or be assigned work.
func (u *User) IsMechanic() bool {
	return u.Role == RoleMechanic || u.Role == RoleAdmin
}
