package session

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/Poornima1010/SmartLearning/backend/models"
	"gorm.io/gorm"
)

// Store is the session persistence capability. Exactly one implementation
// holds a given session, chosen by the remember flag at login.
type Store interface {
	Put(token string, s Session) error
	Get(token string) (Session, bool)
	Delete(token string) error
}

// DurableStore keeps sessions in the database so "remembered" logins
// survive process restarts.
type DurableStore struct {
	db     *gorm.DB
	logger *log.Logger
}

func NewDurableStore(db *gorm.DB, logger *log.Logger) *DurableStore {
	return &DurableStore{db: db, logger: logger}
}

func (s *DurableStore) Put(token string, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	var existing models.SessionRecord
	if err := s.db.Where("token = ?", token).First(&existing).Error; err == nil {
		existing.Data = string(data)
		return s.db.Save(&existing).Error
	}

	record := models.SessionRecord{Token: token, Data: string(data)}
	return s.db.Create(&record).Error
}

// Get returns the stored session. A snapshot that fails to parse counts as
// absent; the row is left in place and the failure is logged so corruption
// stays visible.
func (s *DurableStore) Get(token string) (Session, bool) {
	var record models.SessionRecord
	if err := s.db.Where("token = ?", token).First(&record).Error; err != nil {
		return Session{}, false
	}

	var sess Session
	if err := json.Unmarshal([]byte(record.Data), &sess); err != nil {
		if s.logger != nil {
			s.logger.Printf("session: unreadable durable snapshot for token %s: %v", token, err)
		}
		return Session{}, false
	}
	return sess, true
}

func (s *DurableStore) Delete(token string) error {
	return s.db.Unscoped().Where("token = ?", token).Delete(&models.SessionRecord{}).Error
}

// MemoryStore keeps sessions for the lifetime of the process only.
// Non-remembered logins land here and are gone after a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (s *MemoryStore) Put(token string, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = sess
	return nil
}

func (s *MemoryStore) Get(token string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	return sess, ok
}

func (s *MemoryStore) Delete(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
