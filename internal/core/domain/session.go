package domain

import "time"

// Session is a server-side session row. Data holds the serialized session values.
type Session struct {
	ID     string    `db:"sid"`
	Data   []byte    `db:"sess"`
	Expire time.Time `db:"expire"`
}

func NewSession(id string, data []byte, maxAge time.Duration) *Session {
	return &Session{
		ID:     id,
		Data:   data,
		Expire: time.Now().UTC().Add(maxAge).Truncate(time.Second),
	}
}

func (s *Session) IsExpired() bool {
	return time.Now().UTC().After(s.Expire)
}
