package session

import (
	"fmt"
	"testing"

	"github.com/Poornima1010/SmartLearning/backend/apperror"
	"github.com/Poornima1010/SmartLearning/backend/models"
	"github.com/Poornima1010/SmartLearning/backend/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	manager *Manager
	durable *DurableStore
	memory  *MemoryStore
	db      *gorm.DB
}

var dbSeq int

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:session_test_%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.SessionRecord{}))

	accounts := store.NewAccountStore(db)
	durable := NewDurableStore(db, nil)
	memory := NewMemoryStore()
	return &fixture{
		manager: NewManager(accounts, durable, memory, nil),
		durable: durable,
		memory:  memory,
		db:      db,
	}
}

func TestSignupThenLoginRoundtrip(t *testing.T) {
	f := newFixture(t)

	_, created, err := f.manager.Signup("Alex", "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Alex", created.Name)
	assert.Equal(t, 0, created.XP)
	assert.Equal(t, 1, created.Level)
	assert.Equal(t, 1, created.Streak)
	assert.False(t, created.OnboardingComplete())

	_, sess, err := f.manager.Login("a@x.com", "secret1", true)
	require.NoError(t, err)
	assert.Equal(t, created.Name, sess.Name)
	assert.Equal(t, created.Email, sess.Email)
	assert.Equal(t, created.XP, sess.XP)
	assert.Equal(t, created.Level, sess.Level)
	assert.Equal(t, created.Streak, sess.Streak)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.manager.Signup("Alex", "a@x.com", "secret1")
	require.NoError(t, err)

	_, _, err = f.manager.Signup("Blake", "a@x.com", "other")
	require.Error(t, err)
	assert.True(t, apperror.IsType(err, apperror.DuplicateAccountError))
	assert.Equal(t, "An account with this email already exists.", err.Error())

	// Original account still logs in with the original password.
	_, sess, err := f.manager.Login("a@x.com", "secret1", true)
	require.NoError(t, err)
	assert.Equal(t, "Alex", sess.Name)
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.manager.Login("nobody@x.com", "whatever", true)
	require.Error(t, err)
	assert.True(t, apperror.IsType(err, apperror.AccountNotFoundError))
	assert.Equal(t, "No account found with that email.", err.Error())
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.manager.Signup("Alex", "a@x.com", "secret1")
	require.NoError(t, err)

	_, _, err = f.manager.Login("a@x.com", "wrong", true)
	require.Error(t, err)
	assert.True(t, apperror.IsType(err, apperror.InvalidCredentialsError))
	assert.Equal(t, "Incorrect password.", err.Error())
}

func TestRememberSelectsExactlyOneBackend(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.manager.Signup("Alex", "a@x.com", "secret1")
	require.NoError(t, err)

	remembered, _, err := f.manager.Login("a@x.com", "secret1", true)
	require.NoError(t, err)
	_, inDurable := f.durable.Get(remembered)
	_, inMemory := f.memory.Get(remembered)
	assert.True(t, inDurable)
	assert.False(t, inMemory)

	ephemeral, _, err := f.manager.Login("a@x.com", "secret1", false)
	require.NoError(t, err)
	_, inDurable = f.durable.Get(ephemeral)
	_, inMemory = f.memory.Get(ephemeral)
	assert.False(t, inDurable)
	assert.True(t, inMemory)
}

func TestSignupSessionIsDurable(t *testing.T) {
	f := newFixture(t)

	token, _, err := f.manager.Signup("Alex", "a@x.com", "secret1")
	require.NoError(t, err)

	_, inDurable := f.durable.Get(token)
	_, inMemory := f.memory.Get(token)
	assert.True(t, inDurable)
	assert.False(t, inMemory)
}

func TestUpdateProfileWritesThrough(t *testing.T) {
	f := newFixture(t)

	token, _, err := f.manager.Signup("Alex", "a@x.com", "secret1")
	require.NoError(t, err)

	education := "Graduate"
	interests := []string{"Genetics", "CRISPR"}
	updated, ok := f.manager.UpdateProfile(token, ProfileUpdate{
		EducationLevel: &education,
		Interests:      &interests,
	})
	require.True(t, ok)
	assert.Equal(t, "Graduate", updated.EducationLevel)
	assert.Equal(t, interests, updated.Interests)
	assert.True(t, updated.OnboardingComplete())

	// The owning store holds the merged session.
	stored, ok := f.durable.Get(token)
	require.True(t, ok)
	assert.Equal(t, "Graduate", stored.EducationLevel)

	// A fresh login sees the update through the account record.
	_, sess, err := f.manager.Login("a@x.com", "secret1", false)
	require.NoError(t, err)
	assert.Equal(t, "Graduate", sess.EducationLevel)
	assert.Equal(t, interests, sess.Interests)
}

func TestUpdateProfileEphemeralSessionStaysEphemeral(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.manager.Signup("Alex", "a@x.com", "secret1")
	require.NoError(t, err)

	token, _, err := f.manager.Login("a@x.com", "secret1", false)
	require.NoError(t, err)

	theme := "light"
	_, ok := f.manager.UpdateProfile(token, ProfileUpdate{Theme: &theme})
	require.True(t, ok)

	_, inDurable := f.durable.Get(token)
	stored, inMemory := f.memory.Get(token)
	assert.False(t, inDurable)
	require.True(t, inMemory)
	assert.Equal(t, "light", stored.Theme)
}

func TestUpdateProfileWithoutSessionIsNoop(t *testing.T) {
	f := newFixture(t)

	xp := 100
	_, ok := f.manager.UpdateProfile("no-such-token", ProfileUpdate{XP: &xp})
	assert.False(t, ok)
}

func TestLogoutClearsBothStoresAndIsIdempotent(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.manager.Signup("Alex", "a@x.com", "secret1")
	require.NoError(t, err)

	durableToken, _, err := f.manager.Login("a@x.com", "secret1", true)
	require.NoError(t, err)
	ephemeralToken, _, err := f.manager.Login("a@x.com", "secret1", false)
	require.NoError(t, err)

	f.manager.Logout(durableToken)
	f.manager.Logout(ephemeralToken)

	_, ok := f.manager.Resolve(durableToken)
	assert.False(t, ok)
	_, ok = f.manager.Resolve(ephemeralToken)
	assert.False(t, ok)

	// Safe to repeat and to call with no active session.
	f.manager.Logout(durableToken)
	f.manager.Logout("never-existed")
}

func TestResolveSkipsUnreadableDurableSnapshot(t *testing.T) {
	f := newFixture(t)

	record := models.SessionRecord{Token: "corrupt", Data: "{not json"}
	require.NoError(t, f.db.Create(&record).Error)

	_, ok := f.manager.Resolve("corrupt")
	assert.False(t, ok)
}

func TestStreakUnchangedOnSameDayLogin(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.manager.Signup("Alex", "a@x.com", "secret1")
	require.NoError(t, err)

	_, sess, err := f.manager.Login("a@x.com", "secret1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Streak)

	_, sess, err = f.manager.Login("a@x.com", "secret1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Streak)
}

// Register, then log in without remember: the session lives only in
// process-lifetime storage and carries the default profile.
func TestEphemeralLoginScenario(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.manager.Signup("Alex", "a@x.com", "secret1")
	require.NoError(t, err)

	token, sess, err := f.manager.Login("a@x.com", "secret1", false)
	require.NoError(t, err)

	_, inDurable := f.durable.Get(token)
	stored, inMemory := f.memory.Get(token)
	assert.False(t, inDurable)
	require.True(t, inMemory)

	assert.Equal(t, "Alex", stored.Name)
	assert.Equal(t, 0, stored.XP)
	assert.Equal(t, 1, stored.Level)
	assert.Equal(t, 1, stored.Streak)
	assert.Equal(t, sess, stored)
}
