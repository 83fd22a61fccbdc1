package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the identity aggregate. Authentication state (password hash,
// EmailConfirmed) and display fields (Initials, ProfileImageURL) live on the
// same record; the confirmation flag is the only field the engine mutates
// after creation, and it only ever moves from false to true.
type User struct {
	bun.BaseModel   `bun:"table:users,alias:usr"`
	ID              uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username        string         `bun:"username,notnull,unique" json:"username,omitempty"`
	Email           string         `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash    string         `bun:"password_hash" json:"-"`
	EmailConfirmed  bool           `bun:"email_confirmed" json:"email_confirmed"`
	Initials        string         `bun:"initials" json:"initials,omitempty"`
	ProfileImageURL string         `bun:"profile_image_url" json:"profile_image_url,omitempty"`
	Metadata        map[string]any `bun:"metadata" json:"metadata,omitempty"`
	CreatedAt       *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt       *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Initials derives the display initials for a username: the first two
// characters, uppercased. Blank or whitespace-only usernames yield "??".
func Initials(username string) string {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "??"
	}

	runes := []rune(strings.ToUpper(trimmed))
	if len(runes) > 2 {
		runes = runes[:2]
	}

	return string(runes)
}

// EnsureInitials fills in Initials from the username when unset.
func (u *User) EnsureInitials() {
	if u.Initials == "" {
		u.Initials = Initials(u.Username)
	}
}

// AddMetadata will append information to a metadata attribute
func (u *User) AddMetadata(key string, val any) *User {
	if u.Metadata == nil {
		u.Metadata = make(map[string]any)
	}
	u.Metadata[key] = val
	return u
}
