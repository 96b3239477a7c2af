package specification

import "gorm.io/gorm"

// OwnedBy scopes chat rows to their owning user. Every read path goes through
// this filter; a caller-supplied session id alone is never trusted.
type OwnedBy struct {
	UserID string
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// InSession filters messages by their parent chat session
type InSession struct {
	SessionID string
}

func (s InSession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.SessionID)
}
