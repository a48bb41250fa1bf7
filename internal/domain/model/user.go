//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 8

const maxNameLen = 100

var reUsername = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

// FieldErrors maps form field names to messages. It implements error so
// validators can return it directly.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

// orNil avoids returning a typed nil inside a non-nil error interface.
func (fe FieldErrors) orNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// User is a registered company account.
type User struct {
	ID           string    `json:"id"           db:"id"`
	Username     string    `json:"username"     db:"username"`
	Email        string    `json:"email"        db:"email"`
	PasswordHash string    `json:"-"            db:"password_hash"`
	CompanyName  string    `json:"company_name" db:"company_name"`
	ContactName  string    `json:"contact_name" db:"contact_name"`
	Phone        string    `json:"phone"        db:"phone"`
	Address      string    `json:"address"      db:"address"`
	Role         string    `json:"role"         db:"role"`
	Approved     bool      `json:"approved"     db:"approved"`
	CreatedAt    time.Time `json:"created_at"   db:"created_at"`
}

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Username    string
	Password    string
	Email       string
	CompanyName string
	ContactName string
	Phone       string
	Address     string
}

// Normalize trims whitespace and lowercases the email.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.ContactName = strings.TrimSpace(r.ContactName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
}

// Validate returns FieldErrors for every invalid field.
func (r *RegisterRequest) Validate() error {
	r.Normalize()
	fe := FieldErrors{}
	if !reUsername.MatchString(r.Username) {
		fe["username"] = "ユーザー名は3〜32文字の英数字で入力してください"
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		fe["password"] = "パスワードは8文字以上で入力してください"
	}
	if _, err := mail.ParseAddress(r.Email); err != nil || r.Email == "" {
		fe["email"] = "メールアドレスの形式が正しくありません"
	}
	if r.CompanyName == "" {
		fe["company_name"] = "会社名を入力してください"
	} else if utf8.RuneCountInString(r.CompanyName) > maxNameLen {
		fe["company_name"] = "会社名が長すぎます"
	}
	return fe.orNil()
}

// ProfileUpdate is the settings form.
type ProfileUpdate struct {
	CompanyName string
	ContactName string
	Phone       string
	Address     string
}

// Validate checks the profile form.
func (p *ProfileUpdate) Validate() error {
	p.CompanyName = strings.TrimSpace(p.CompanyName)
	fe := FieldErrors{}
	if p.CompanyName == "" {
		fe["company_name"] = "会社名を入力してください"
	} else if utf8.RuneCountInString(p.CompanyName) > maxNameLen {
		fe["company_name"] = "会社名が長すぎます"
	}
	return fe.orNil()
}

// UsersListOptions filters the admin user list and company directory.
type UsersListOptions struct {
	Q        string
	Approved *bool
	Limit    int
	Offset   int
}
