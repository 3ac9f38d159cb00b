package account

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles. A role decides which dashboard an account may open and which record
// store collection RecordID points into.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleTeacher
}

type (
	// Account is a login identity. RecordID links it to the Student or
	// Teacher record the dashboards display.
	Account struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		Username     string    `json:"username"`
		Email        string    `json:"email"`
		Role         string    `json:"role"`
		RecordID     string    `json:"recordId"`
		IsActive     bool      `json:"isActive"`
		PasswordHash []byte    `json:"-"`
		CreatedAt    time.Time `json:"createdAt"` // UTC
		UpdatedAt    time.Time `json:"updatedAt"` // UTC
		LastLogin    time.Time `json:"lastLogin"` // UTC
	}

	NewAccount struct {
		Name     string `json:"name" validate:"required"`
		Username string `json:"username" validate:"required,recordid"`
		Email    string `json:"email" validate:"required,email"`
		Role     string `json:"role" validate:"required"`
		RecordID string `json:"recordId" validate:"required,recordid"`
		Password string `json:"password" validate:"required"`
	}

	ResetAccountPassword struct {
		UID        string `json:"uid" validate:"required"`
		Token      string `json:"token" validate:"required"`
		Password   string `json:"password" validate:"required"`
		PasswordRe string `json:"passwordRe" validate:"required,eqfield=Password"`
	}

	// Session is a server-side registry entry backing /api/check-auth.
	Session struct {
		ID        string    `json:"id"`
		Role      string    `json:"role"`
		UserID    string    `json:"userId"` // the linked RecordID
		IssuedAt  time.Time `json:"issuedAt"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
)

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}
