package session

import (
	"log"
	"time"

	"github.com/Poornima1010/SmartLearning/backend/apperror"
	"github.com/Poornima1010/SmartLearning/backend/models"
	"github.com/Poornima1010/SmartLearning/backend/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Manager owns the signup/login/logout/update lifecycle. It is the only
// writer of the two session stores and of profile fields on the account
// store.
type Manager struct {
	accounts *store.AccountStore
	durable  Store
	memory   Store
	logger   *log.Logger
}

func NewManager(accounts *store.AccountStore, durable Store, memory Store, logger *log.Logger) *Manager {
	return &Manager{accounts: accounts, durable: durable, memory: memory, logger: logger}
}

// ProfileUpdate carries a partial profile mutation. Nil fields are left
// untouched.
type ProfileUpdate struct {
	EducationLevel *string
	Interests      *[]string
	KnowledgeLevel *string
	XP             *int
	Level          *int
	Streak         *int
	Theme          *string
}

func (u ProfileUpdate) columns() map[string]interface{} {
	fields := make(map[string]interface{})
	if u.EducationLevel != nil {
		fields["education_level"] = *u.EducationLevel
	}
	if u.Interests != nil {
		fields["interests"] = EncodeInterests(*u.Interests)
	}
	if u.KnowledgeLevel != nil {
		fields["knowledge_level"] = *u.KnowledgeLevel
	}
	if u.XP != nil {
		fields["xp"] = *u.XP
	}
	if u.Level != nil {
		fields["level"] = *u.Level
	}
	if u.Streak != nil {
		fields["streak"] = *u.Streak
	}
	if u.Theme != nil {
		fields["theme"] = *u.Theme
	}
	return fields
}

func (u ProfileUpdate) apply(s *Session) {
	if u.EducationLevel != nil {
		s.EducationLevel = *u.EducationLevel
	}
	if u.Interests != nil {
		s.Interests = *u.Interests
	}
	if u.KnowledgeLevel != nil {
		s.KnowledgeLevel = *u.KnowledgeLevel
	}
	if u.XP != nil {
		s.XP = *u.XP
	}
	if u.Level != nil {
		s.Level = *u.Level
	}
	if u.Streak != nil {
		s.Streak = *u.Streak
	}
	if u.Theme != nil {
		s.Theme = *u.Theme
	}
}

// Signup registers a new account with the default profile (xp=0, level=1,
// streak=1) and establishes a durable session for it.
func (m *Manager) Signup(name, email, password string) (string, Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", Session{}, apperror.NewAppError(apperror.UnknownError, "Could not hash password", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "user",
		XP:           0,
		Level:        1,
		Streak:       1,
		Theme:        "dark",
		LastActive:   time.Now(),
	}
	if err := m.accounts.Register(&user); err != nil {
		return "", Session{}, err
	}

	return m.establish(user, true)
}

// Login verifies credentials and establishes a session in the backend
// selected by remember. Unknown email and wrong password keep distinct
// error codes and messages.
func (m *Manager) Login(email, password string, remember bool) (string, Session, error) {
	user, err := m.accounts.Lookup(email)
	if err != nil {
		return "", Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", Session{}, apperror.NewInvalidCredentialsError("Incorrect password.")
	}

	// Maintain the login streak: a login on a new day within 48 hours of
	// the last activity extends it, a longer gap resets it to 1, and
	// repeated logins on the same day leave it alone.
	now := time.Now()
	streak := user.Streak
	switch {
	case user.LastActive.IsZero() || now.Sub(user.LastActive) >= 48*time.Hour:
		streak = 1
	case !sameDay(user.LastActive, now):
		streak++
	}
	user.Streak = streak
	user.LastActive = now
	if err := m.accounts.Patch(user.Email, map[string]interface{}{
		"streak":      streak,
		"last_active": user.LastActive,
	}); err != nil && m.logger != nil {
		m.logger.Printf("session: could not update streak for %s: %v", user.Email, err)
	}

	return m.establish(user, remember)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func (m *Manager) establish(user models.User, remember bool) (string, Session, error) {
	token := uuid.NewString()
	sess := FromUser(user, remember)

	target := m.memory
	if remember {
		target = m.durable
	}
	if err := target.Put(token, sess); err != nil {
		return "", Session{}, apperror.NewDatabaseError("Could not persist session", err)
	}
	return token, sess, nil
}

// Resolve returns the active session for a token. The durable store is
// consulted first, matching the restoration order at startup; memory-held
// sessions are only found while the process that created them is alive.
func (m *Manager) Resolve(token string) (Session, bool) {
	if sess, ok := m.durable.Get(token); ok {
		return sess, true
	}
	return m.memory.Get(token)
}

// UpdateProfile merges fields into the active session, rewrites whichever
// store holds it and patches the account record so future logins see the
// change. Without an active session it is a no-op.
func (m *Manager) UpdateProfile(token string, update ProfileUpdate) (Session, bool) {
	sess, ok := m.Resolve(token)
	if !ok {
		return Session{}, false
	}

	update.apply(&sess)

	owner := m.memory
	if sess.Remember {
		owner = m.durable
	}
	if err := owner.Put(token, sess); err != nil {
		if m.logger != nil {
			m.logger.Printf("session: could not rewrite session %s: %v", token, err)
		}
		return Session{}, false
	}

	if err := m.accounts.Patch(sess.Email, update.columns()); err != nil {
		if m.logger != nil {
			m.logger.Printf("session: could not patch account %s: %v", sess.Email, err)
		}
	}

	return sess, true
}

// Logout clears the token from both stores unconditionally. Safe to call
// with no active session.
func (m *Manager) Logout(token string) {
	if err := m.durable.Delete(token); err != nil && m.logger != nil {
		m.logger.Printf("session: durable delete failed for %s: %v", token, err)
	}
	if err := m.memory.Delete(token); err != nil && m.logger != nil {
		m.logger.Printf("session: memory delete failed for %s: %v", token, err)
	}
}
