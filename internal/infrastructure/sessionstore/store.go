// Package sessionstore implements a gorilla/sessions Store that keeps session
// values server-side in a SessionRepository. The cookie only carries the
// signed session id.
package sessionstore

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/shizzytech/LinguaSync-AI/internal/core/domain"
	"github.com/shizzytech/LinguaSync-AI/internal/core/repository"
	"github.com/sirupsen/logrus"
)

const DefaultCleanupInterval = 15 * time.Minute

var errRandomSource = errors.New("failed to generate session id")

type Store struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options

	repo       repository.SessionRepository
	serializer securecookie.GobEncoder
	log        logrus.FieldLogger
}

// New returns a Store. keyPairs follow securecookie.CodecsFromPairs: a hash
// key, optionally followed by an encryption key, repeated for rotation.
func New(repo repository.SessionRepository, options *sessions.Options, keyPairs ...[]byte) *Store {
	s := &Store{
		Codecs:  securecookie.CodecsFromPairs(keyPairs...),
		Options: options,
		repo:    repo,
		log:     logrus.StandardLogger(),
	}

	for _, c := range s.Codecs {
		if codec, ok := c.(*securecookie.SecureCookie); ok {
			codec.MaxAge(options.MaxAge)
		}
	}

	return s
}

func (s *Store) SetLogger(log logrus.FieldLogger) {
	s.log = log
}

// Get returns a cached session for the request, loading it on first use.
func (s *Store) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. A missing cookie, a bad
// signature or an expired row all yield a fresh session; only repository
// failures are returned as errors.
func (s *Store) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := securecookie.DecodeMulti(name, cookie.Value, &id, s.Codecs...); err != nil {
		s.log.WithError(err).Debug("ignoring session cookie that failed to decode")
		return session, nil
	}

	record, err := s.repo.Find(r.Context(), id)
	if err != nil {
		return session, err
	}
	if record == nil || record.IsExpired() {
		return session, nil
	}

	if err := s.serializer.Deserialize(record.Data, &session.Values); err != nil {
		s.log.WithError(err).WithField("sid", id).Warn("discarding unreadable session")
		return session, nil
	}

	session.ID = id
	session.IsNew = false
	return session, nil
}

// Save persists the session and writes the cookie. A negative MaxAge deletes
// the row and expires the cookie.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.repo.Delete(r.Context(), session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		id, err := newSessionID()
		if err != nil {
			return err
		}
		session.ID = id
	}

	data, err := s.serializer.Serialize(session.Values)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	maxAge := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.repo.Save(r.Context(), domain.NewSession(session.ID, data, maxAge)); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return fmt.Errorf("failed to encode session cookie: %w", err)
	}

	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Renew drops the stored row and clears the id so the next Save issues a new
// session id. Called when a user authenticates.
func (s *Store) Renew(r *http.Request, session *sessions.Session) error {
	if session.ID != "" {
		if err := s.repo.Delete(r.Context(), session.ID); err != nil {
			return err
		}
	}
	session.ID = ""
	session.IsNew = true
	return nil
}

// Cleanup removes expired session rows.
func (s *Store) Cleanup(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, time.Now())
}

// StartCleanup prunes expired sessions every interval until ctx is done.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := s.Cleanup(ctx)
				if err != nil {
					s.log.WithError(err).Error("failed to prune expired sessions")
					continue
				}
				if deleted > 0 {
					s.log.WithField("deleted", deleted).Info("pruned expired sessions")
				}
			}
		}
	}()
}

func newSessionID() (string, error) {
	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return "", errRandomSource
	}
	return strings.TrimRight(base32.StdEncoding.EncodeToString(key), "="), nil
}
