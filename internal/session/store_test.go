package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcissey0/fitplan/internal/api"
	"github.com/hcissey0/fitplan/internal/models"
	"github.com/hcissey0/fitplan/internal/notify"
	"github.com/hcissey0/fitplan/internal/utils"
)

// authBackend is a fake backend with a working login and identity endpoint.
func authBackend(t *testing.T) *mux.Router {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/auth/login/", func(w http.ResponseWriter, req *http.Request) {
		var creds map[string]string
		json.NewDecoder(req.Body).Decode(&creds)
		if creds["password"] != "correct" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"non_field_errors":["Unable to log in with provided credentials."]}`))
			return
		}
		json.NewEncoder(w).Encode(api.AuthResponse{
			Token: "tok-login",
			User:  models.User{ID: 1, Username: "ama", Email: creds["email"]},
		})
	}).Methods(http.MethodPost)
	r.HandleFunc("/users/me/", func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") != "Bearer tok-login" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Invalid token."}`))
			return
		}
		json.NewEncoder(w).Encode(models.User{ID: 1, Username: "ama-fresh"})
	}).Methods(http.MethodGet)
	return r
}

func newStore(t *testing.T, handler http.Handler, dataDir string) (*Store, *notify.Recorder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	rec := &notify.Recorder{}
	client := api.NewClient(srv.URL, utils.NewLogger())
	return New(client, dataDir, utils.NewLogger(), rec), rec
}

func TestLoginEstablishesSession(t *testing.T) {
	dir := t.TempDir()
	s, rec := newStore(t, authBackend(t), dir)

	var seen *models.User
	s.OnIdentityChange(func(u *models.User) { seen = u })

	user, err := s.Login(context.Background(), "ama@example.com", "correct")
	require.NoError(t, err)
	assert.Equal(t, "ama", user.Username)
	assert.True(t, s.Authenticated())
	assert.Equal(t, "tok-login", s.Token())
	assert.NotNil(t, seen)
	assert.Empty(t, rec.Sent)

	// Token and identity cache persisted.
	assert.FileExists(t, s.tokenPath())
	assert.FileExists(t, s.userCachePath())
}

func TestLoginFailureSurfacesNormalizedError(t *testing.T) {
	s, rec := newStore(t, authBackend(t), t.TempDir())

	_, err := s.Login(context.Background(), "ama@example.com", "wrong")
	require.Error(t, err)
	assert.False(t, s.Authenticated())

	last := rec.Last()
	require.NotNil(t, last)
	assert.Equal(t, "Login failed", last.Title)
	assert.Equal(t, "Unable to log in with provided credentials.", last.Message)
}

func TestInitializeRestoresSession(t *testing.T) {
	dir := t.TempDir()
	s1, _ := newStore(t, authBackend(t), dir)
	_, err := s1.Login(context.Background(), "ama@example.com", "correct")
	require.NoError(t, err)

	// Fresh process: same data dir, new store.
	s2, rec := newStore(t, authBackend(t), dir)
	s2.Initialize(context.Background())

	assert.True(t, s2.Authenticated())
	assert.False(t, s2.Loading())
	// Identity comes from the network, not the cache.
	assert.Equal(t, "ama-fresh", s2.User().Username)
	assert.Empty(t, rec.Sent)
}

func TestInitializeIdentityFailureClearsSession(t *testing.T) {
	dir := t.TempDir()
	s1, _ := newStore(t, authBackend(t), dir)
	_, err := s1.Login(context.Background(), "ama@example.com", "correct")
	require.NoError(t, err)

	// Backend now rejects the token.
	r := mux.NewRouter()
	r.HandleFunc("/users/me/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Token expired."}`))
	})
	s2, rec := newStore(t, r, dir)
	s2.Initialize(context.Background())

	assert.False(t, s2.Authenticated())
	assert.Nil(t, s2.User())
	assert.Empty(t, s2.Token())
	assert.NoFileExists(t, s2.tokenPath())
	assert.NoFileExists(t, s2.userCachePath())

	last := rec.Last()
	require.NotNil(t, last)
	assert.Equal(t, "Session expired", last.Title)
	assert.Equal(t, "Token expired.", last.Message)
}

func TestInitializeWithoutToken(t *testing.T) {
	requests := 0
	r := mux.NewRouter()
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, req *http.Request) { requests++ })

	s, _ := newStore(t, r, t.TempDir())
	s.Initialize(context.Background())

	assert.False(t, s.Authenticated())
	assert.False(t, s.Loading())
	assert.Zero(t, requests)
}

func TestExpiredTokenFileRestoresEmpty(t *testing.T) {
	dir := t.TempDir()
	s, _ := newStore(t, authBackend(t), dir)
	require.NoError(t, s.persistToken("tok-login", time.Now().Add(-time.Hour)))

	s.Initialize(context.Background())
	assert.False(t, s.Authenticated())
	assert.NoFileExists(t, s.tokenPath())
}

func TestExpiredJWTRestoresEmpty(t *testing.T) {
	dir := t.TempDir()
	s, _ := newStore(t, authBackend(t), dir)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("irrelevant"))
	require.NoError(t, err)
	// File expiry is fine, but the token itself says it is dead.
	require.NoError(t, s.persistToken(signed, time.Now().Add(time.Hour)))

	s.Initialize(context.Background())
	assert.False(t, s.Authenticated())
}

func TestLogoutClearsEverything(t *testing.T) {
	dir := t.TempDir()
	s, _ := newStore(t, authBackend(t), dir)
	_, err := s.Login(context.Background(), "ama@example.com", "correct")
	require.NoError(t, err)

	var seen *models.User = &models.User{}
	s.OnIdentityChange(func(u *models.User) { seen = u })

	s.Logout()
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
	assert.NoFileExists(t, s.tokenPath())
	assert.NoFileExists(t, s.userCachePath())
	assert.Nil(t, seen)
}

func TestSignupEstablishesSession(t *testing.T) {
	r := authBackend(t)
	r.HandleFunc("/auth/signup/", func(w http.ResponseWriter, req *http.Request) {
		var body api.SignupRequest
		json.NewDecoder(req.Body).Decode(&body)
		json.NewEncoder(w).Encode(api.AuthResponse{
			Token: "tok-signup",
			User:  models.User{ID: 2, Username: body.Username},
		})
	}).Methods(http.MethodPost)

	s, _ := newStore(t, r, t.TempDir())
	user, err := s.Signup(context.Background(), api.SignupRequest{Username: "kofi", Email: "k@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "kofi", user.Username)
	assert.True(t, s.Authenticated())
	assert.Equal(t, "tok-signup", s.Token())
}

func TestTokenFileBoundToMachineKey(t *testing.T) {
	dir := t.TempDir()
	s, _ := newStore(t, authBackend(t), dir)
	require.NoError(t, s.saveToken("tok-login"))

	// Corrupt the sealed blob; restore must degrade to no-session.
	blob, err := os.ReadFile(s.tokenPath())
	require.NoError(t, err)
	blob[len(blob)-1] ^= 0xff
	require.NoError(t, os.WriteFile(s.tokenPath(), blob, 0600))

	_, ok := s.loadToken()
	assert.False(t, ok)
	assert.NoFileExists(t, s.tokenPath())
}
