package users

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jrsteele09/go-session-client/timestamp"
	"golang.org/x/crypto/bcrypt"
)

// RoleType is the role a user holds in the admin panel
type RoleType string

const (
	RoleAdmin  RoleType = "admin"  // Manages users, tenants and system data
	RoleTenant RoleType = "tenant" // Owns a tenant workspace
	RoleUser   RoleType = "user"   // Regular user of a tenant
)

// Roles lists every defined role
var Roles = []RoleType{RoleAdmin, RoleTenant, RoleUser}

// Valid reports whether r is one of the defined roles
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleTenant, RoleUser:
		return true
	}
	return false
}

func (r RoleType) String() string {
	return string(r)
}

// ParseRole converts s to a RoleType, case-insensitively
func ParseRole(s string) (RoleType, error) {
	r := RoleType(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Record is the identity record returned by the backend
type Record struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	IsActive  bool           `json:"is_active"`
	Role      RoleType       `json:"role"`
	CreatedAt timestamp.Time `json:"created_at"`
	UpdatedAt timestamp.Time `json:"updated_at"`
}

// Validate checks the fields a session cannot work without
func (u *Record) Validate() error {
	if u == nil {
		return fmt.Errorf("user record is nil")
	}
	if u.Email == "" {
		return fmt.Errorf("user record has no email")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("user record has invalid role %q", u.Role)
	}
	return nil
}

// HasRole reports whether the user holds role r. A nil record holds no role.
func (u *Record) HasRole(r RoleType) bool {
	return u != nil && u.Role == r
}

func (u *Record) IsAdmin() bool { return u.HasRole(RoleAdmin) }
func (u *Record) IsTenant() bool { return u.HasRole(RoleTenant) }
func (u *Record) IsUser() bool { return u.HasRole(RoleUser) }

// User is the backend-side account: the public record plus its password hash
type User struct {
	Record
	PasswordHash string `json:"-"` // never serialize
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the user's hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
