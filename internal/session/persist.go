package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hcissey0/fitplan/internal/crypto"
	"github.com/hcissey0/fitplan/internal/models"
	"github.com/hcissey0/fitplan/internal/utils"
)

const (
	tokenFileName = "token.enc"
	userCacheName = "user.json"

	// tokenTTL mirrors the 7-day cookie the web client sets.
	tokenTTL = 7 * 24 * time.Hour
)

// tokenFile is the plaintext layout sealed into the token file.
type tokenFile struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Store) tokenPath() string {
	return filepath.Join(s.dataDir, tokenFileName)
}

func (s *Store) userCachePath() string {
	return filepath.Join(s.dataDir, userCacheName)
}

func (s *Store) saveToken(token string) error {
	return s.persistToken(token, time.Now().Add(tokenTTL))
}

func (s *Store) persistToken(token string, expiresAt time.Time) error {
	plain, err := json.Marshal(tokenFile{Token: token, ExpiresAt: expiresAt})
	if err != nil {
		return err
	}
	key, err := crypto.DeriveTokenKey(utils.MachineID())
	if err != nil {
		return err
	}
	blob, err := crypto.Seal(key, plain)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dataDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath(), blob, 0600)
}

// loadToken restores the persisted token. A missing, unreadable or expired
// file all restore as "no token"; an expired file is removed.
func (s *Store) loadToken() (string, bool) {
	blob, err := os.ReadFile(s.tokenPath())
	if err != nil {
		return "", false
	}
	key, err := crypto.DeriveTokenKey(utils.MachineID())
	if err != nil {
		return "", false
	}
	plain, err := crypto.Open(key, blob)
	if err != nil {
		s.log.Warn("token file unreadable, discarding: %v", err)
		os.Remove(s.tokenPath())
		return "", false
	}
	var tf tokenFile
	if err := json.Unmarshal(plain, &tf); err != nil || tf.Token == "" {
		os.Remove(s.tokenPath())
		return "", false
	}
	if time.Now().After(tf.ExpiresAt) || tokenExpired(tf.Token) {
		os.Remove(s.tokenPath())
		return "", false
	}
	return tf.Token, true
}

// tokenExpired inspects the token's exp claim when it parses as a JWT. The
// client holds no signing key, so the claim is read unverified; the backend
// remains the authority and an expired-anyway token just fails the identity
// fetch instead.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func (s *Store) cacheUser(user *models.User) error {
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dataDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(s.userCachePath(), data, 0600)
}

func (s *Store) loadCachedUser() (*models.User, error) {
	data, err := os.ReadFile(s.userCachePath())
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) removePersisted() {
	os.Remove(s.tokenPath())
	os.Remove(s.userCachePath())
}
