package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AnshRaj112/saferplace/internal/apiclient"
	"github.com/AnshRaj112/saferplace/internal/logger"
	"github.com/AnshRaj112/saferplace/internal/models"
	"github.com/AnshRaj112/saferplace/internal/securestore"
	"github.com/AnshRaj112/saferplace/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLog() *logrus.Entry {
	return logrus.NewEntry(logger.Discard())
}

func newTestVault(t *testing.T) *securestore.Vault {
	t.Helper()
	key := make([]byte, utils.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	c, err := utils.NewCipher(key)
	require.NoError(t, err)
	return securestore.NewVault(securestore.NewFileStore(filepath.Join(t.TempDir(), "secure.json"), c))
}

// fakeBackend records requests and answers from per-path handlers.
type fakeBackend struct {
	t        *testing.T
	srv      *httptest.Server
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	calls    map[string]int
	authSeen []string
	hits     int32
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{t: t, routes: map[string]http.HandlerFunc{}, calls: map[string]int{}}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.hits, 1)
		key := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.calls[key]++
		b.authSeen = append(b.authSeen, r.Header.Get("Authorization"))
		h, ok := b.routes[key]
		b.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	b.routes[method+" "+path] = h
	b.mu.Unlock()
}

func (b *fakeBackend) json(method, path string, status int, body interface{}) {
	b.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	})
}

func (b *fakeBackend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method+" "+path]
}

func (b *fakeBackend) lastAuth() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.authSeen) == 0 {
		return ""
	}
	return b.authSeen[len(b.authSeen)-1]
}

func (b *fakeBackend) client(opts ...apiclient.Option) *apiclient.Client {
	return apiclient.New(b.srv.URL, 5*time.Second, opts...)
}

// sessionEnv is a backend, vault and session wired like the app does it.
type sessionEnv struct {
	backend *fakeBackend
	vault   *securestore.Vault
	api     *apiclient.Client
	session *Session
}

func newSessionEnv(t *testing.T) *sessionEnv {
	t.Helper()
	b := newFakeBackend(t)
	v := newTestVault(t)
	return newSessionEnvOn(b, v)
}

// newSessionEnvOn wires a second client to an existing backend and vault,
// the way another process sharing the secure store would be.
func newSessionEnvOn(b *fakeBackend, v *securestore.Vault) *sessionEnv {
	env := &sessionEnv{backend: b, vault: v}
	env.api = b.client(apiclient.WithTokenSource(apiclient.TokenFunc(func(ctx context.Context) (string, error) {
		return env.session.Token(ctx)
	})))
	env.session = NewSession(env.api, v, testLog())
	return env
}

// loginWith logs in against a /login that returns the given contacts.
func (e *sessionEnv) loginWith(t *testing.T, contacts []models.EmergencyContact) {
	t.Helper()
	e.backend.json(http.MethodPost, "/login", http.StatusOK, map[string]interface{}{
		"access_token": "token-abc",
		"expires":      3600,
		"user": map[string]interface{}{
			"id":            42,
			"name":          "Awa",
			"email":         "awa@example.com",
			"phone":         "+33600000000",
			"authorization": true,
			"is_active":     true,
		},
		"contacts": contacts,
	})
	require.NoError(t, e.session.Login(context.Background(), "awa@example.com", "secret"))
}

func sampleContacts(n int) []models.EmergencyContact {
	levels := []models.Niveau{models.NiveauLow, models.NiveauHigh, models.NiveauMedium}
	out := make([]models.EmergencyContact, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.EmergencyContact{
			ID:     int64(i + 1),
			UserID: 42,
			Name:   "Contact " + string(rune('A'+i)),
			Phone:  "+3361234567" + string(rune('0'+i)),
			Niveau: levels[i%len(levels)],
		})
	}
	return out
}
