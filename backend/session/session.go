// Package session holds the authenticated-session model and its manager.
// A session is the public subset of an account record (never the password
// hash) bound to an opaque token. Depending on the "remember me" choice at
// login it lives either in the durable store or in the in-memory store that
// dies with the process — never both at once.
package session

import (
	"encoding/json"
	"time"

	"github.com/Poornima1010/SmartLearning/backend/models"
)

// Session is the public view of a logged-in account.
type Session struct {
	UserID         uint      `json:"user_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	EducationLevel string    `json:"education_level"`
	Interests      []string  `json:"interests"`
	KnowledgeLevel string    `json:"knowledge_level"`
	XP             int       `json:"xp"`
	Level          int       `json:"level"`
	Streak         int       `json:"streak"`
	Theme          string    `json:"theme"`
	CreatedAt      time.Time `json:"created_at"`

	// Remember records which backend holds this session so later writes
	// target the same one without re-deciding.
	Remember bool `json:"remember"`
}

// OnboardingComplete reports whether the profile setup gate is passed.
// Education level is the completion marker.
func (s Session) OnboardingComplete() bool {
	return s.EducationLevel != ""
}

// FromUser builds a session snapshot from an account record, dropping the
// credential.
func FromUser(user models.User, remember bool) Session {
	return Session{
		UserID:         user.ID,
		Email:          user.Email,
		Name:           user.Name,
		Role:           user.Role,
		EducationLevel: user.EducationLevel,
		Interests:      decodeInterests(user.Interests),
		KnowledgeLevel: user.KnowledgeLevel,
		XP:             user.XP,
		Level:          user.Level,
		Streak:         user.Streak,
		Theme:          user.Theme,
		CreatedAt:      user.CreatedAt,
		Remember:       remember,
	}
}

func decodeInterests(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}

// EncodeInterests stores interest tags in the column format used by the
// users table.
func EncodeInterests(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return ""
	}
	return string(b)
}
