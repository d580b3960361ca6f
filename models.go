package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the credential record. PasswordHash is never serialized.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FullName      string     `bun:"full_name,notnull" json:"fullname,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone         string     `bun:"phone_number" json:"phoneNumber,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          UserRole   `bun:"user_role,notnull" json:"role,omitempty"`
	Bio           string     `bun:"bio" json:"bio,omitempty"`
	Skills        []string   `bun:"skills,type:jsonb" json:"skills,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// GetID returns the record id as a string
func (u *User) GetID() string {
	if u == nil {
		return ""
	}
	return u.ID.String()
}

// UserView is the sanitized subject view sent to clients
type UserView struct {
	ID       string   `json:"_id"`
	FullName string   `json:"fullname"`
	Email    string   `json:"email"`
	Phone    string   `json:"phoneNumber,omitempty"`
	Role     UserRole `json:"role"`
	Profile  Profile  `json:"profile"`
}

// Profile holds the editable, non credential fields
type Profile struct {
	Bio    string   `json:"bio,omitempty"`
	Skills []string `json:"skills"`
}

// View strips the digest and any storage detail from u
func (u *User) View() *UserView {
	if u == nil {
		return nil
	}
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return &UserView{
		ID:       u.ID.String(),
		FullName: u.FullName,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
		Profile: Profile{
			Bio:    u.Bio,
			Skills: skills,
		},
	}
}

// NormalizeIdentifier is the canonical form used to store and look up emails
func NormalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// SplitList turns "a, b,,c" into [a b c]
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
