package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role enum
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
	RoleNurse  Role = "nurse"
	RoleStaff  Role = "staff"
)

// User represents an account able to log into the application.
type User struct {
	Username  string    `gorm:"primaryKey;size:64" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Role      Role      `gorm:"size:20;default:'staff'" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// CanModify is the capability check for record edits and deletes: an admin
// may modify anything, everyone else only records they created.
func CanModify(role Role, actor, owner string) bool {
	return role == RoleAdmin || actor == owner
}

// SeedAdmin creates the bootstrap admin account when the users table is
// empty, so a fresh install can be logged into.
func SeedAdmin(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := User{Username: username, Role: RoleAdmin}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	return db.Create(&admin).Error
}
