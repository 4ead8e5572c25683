package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AnshRaj112/saferplace/internal/apiclient"
	"github.com/AnshRaj112/saferplace/internal/models"
	"github.com/AnshRaj112/saferplace/internal/realtime"
	"github.com/AnshRaj112/saferplace/internal/securestore"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotAuthenticated is returned by operations that need a logged-in user.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNoToken is returned when the login response carries no access token.
	ErrNoToken = errors.New("login response has no access token")
	// ErrMissingCredentials is returned when email or password is blank.
	ErrMissingCredentials = errors.New("email and password are required")
)

// LoginResponse is the body returned by POST /login.
type LoginResponse struct {
	AccessToken string                    `json:"access_token"`
	Expires     json.RawMessage           `json:"expires,omitempty"`
	User        RemoteUser                `json:"user"`
	Contacts    []models.EmergencyContact `json:"contacts,omitempty"`
}

// RemoteUser is the user object as the backend sends it.
type RemoteUser struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Authorization flagText `json:"authorization"`
	IsActive      bool     `json:"is_active"`
}

// flagText accepts true/false as either a JSON bool or a string and keeps
// the string form the app stores.
type flagText string

func (f *flagText) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flagText(strconv.FormatBool(b))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flagText(strings.ToLower(strings.TrimSpace(s)))
	return nil
}

// Session is the auth context: who is logged in and their emergency
// contacts. It is created once and injected into every consumer. The
// bearer token is held in memory with the user it belongs to; Session is
// the backend client's TokenSource.
type Session struct {
	api   *apiclient.Client
	vault *securestore.Vault
	log   *logrus.Entry
	now   func() time.Time

	mu       sync.RWMutex
	token    string
	user     *models.UserInfo
	contacts []models.EmergencyContact
	expires  time.Time

	subMu    sync.Mutex
	subs     map[int]chan models.SessionState
	nextID   int
	onLogout []func()
}

func NewSession(api *apiclient.Client, vault *securestore.Vault, log *logrus.Entry) *Session {
	return &Session{
		api:   api,
		vault: vault,
		log:   log,
		now:   time.Now,
		subs:  make(map[int]chan models.SessionState),
	}
}

// Login exchanges credentials for a token, persists token, profile and
// contacts, then marks the session authenticated. On failure the error is
// logged and returned and the in-memory state is left untouched.
func (s *Session) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrMissingCredentials
	}

	var resp LoginResponse
	err := s.api.Post(ctx, "/login", map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		s.log.WithError(err).Error("Login failed")
		return fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		s.log.Error("Login failed: empty access token")
		return ErrNoToken
	}

	info := models.UserInfo{
		ID:            resp.User.ID,
		Name:          resp.User.Name,
		Email:         resp.User.Email,
		Phone:         resp.User.Phone,
		Authorization: string(resp.User.Authorization),
		IsActive:      resp.User.IsActive,
	}
	expires := parseExpires(resp.Expires, s.now())
	if expires.IsZero() {
		expires = tokenExpiry(resp.AccessToken)
	}
	contacts := resp.Contacts
	if contacts == nil {
		contacts = []models.EmergencyContact{}
	}

	if err := s.persist(ctx, resp.AccessToken, expires, info, contacts); err != nil {
		s.log.WithError(err).Error("Login failed: could not persist session")
		if clearErr := s.vault.Clear(ctx); clearErr != nil {
			s.log.WithError(clearErr).Warn("could not roll back partial session")
		}
		return fmt.Errorf("login: persist session: %w", err)
	}

	s.mu.Lock()
	previous := s.user
	s.token = resp.AccessToken
	s.user = &info
	s.contacts = contacts
	s.expires = expires
	s.mu.Unlock()

	if previous != nil && previous.ID != info.ID {
		s.runLogoutHooks()
	}
	s.log.WithFields(logrus.Fields{"user_id": info.ID, "contacts": len(contacts)}).Info("Login successful")
	s.broadcast()
	return nil
}

func (s *Session) persist(ctx context.Context, token string, expires time.Time, info models.UserInfo, contacts []models.EmergencyContact) error {
	if err := s.vault.SaveToken(ctx, token, expires); err != nil {
		return err
	}
	if err := s.vault.SaveUserInfo(ctx, info); err != nil {
		return err
	}
	return s.vault.SaveContacts(ctx, contacts)
}

// Logout wipes the secure store and the in-memory state. Memory is always
// cleared, even when the store cannot be.
func (s *Session) Logout(ctx context.Context) error {
	err := s.vault.Clear(ctx)
	if err != nil {
		s.log.WithError(err).Error("Logout failed to clear secure storage")
	}

	s.reset()
	s.runLogoutHooks()

	s.log.Info("Logged out")
	s.broadcast()
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Restore rehydrates the session from secure storage at start-up. An
// expired or incomplete stored session is purged.
func (s *Session) Restore(ctx context.Context) error {
	token, expires, err := s.vault.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("restore token: %w", err)
	}
	if token == "" {
		return nil
	}
	if expires.IsZero() {
		expires = tokenExpiry(token)
	}
	if !expires.IsZero() && !s.now().Before(expires) {
		s.log.WithField("expired_at", expires).Info("Stored session expired")
		return s.vault.Clear(ctx)
	}

	info, err := s.vault.GetUserInfo(ctx)
	if err != nil {
		return fmt.Errorf("restore user info: %w", err)
	}
	if info == nil {
		s.log.Warn("Stored token without user info, discarding")
		return s.vault.Clear(ctx)
	}
	contacts, err := s.vault.GetContacts(ctx)
	if err != nil {
		return fmt.Errorf("restore contacts: %w", err)
	}
	if contacts == nil {
		contacts = []models.EmergencyContact{}
	}

	s.mu.Lock()
	s.token = token
	s.user = info
	s.contacts = contacts
	s.expires = expires
	s.mu.Unlock()

	s.log.WithField("user_id", info.ID).Info("Session restored")
	s.broadcast()
	return nil
}

// Sync reloads the session when another process sharing the secure store
// logged in or out since this one last looked. Callers run it before acting
// on behalf of the user so the user id and the token always match.
func (s *Session) Sync(ctx context.Context) error {
	stored, _, err := s.vault.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("sync session: %w", err)
	}

	s.mu.RLock()
	current := s.token
	s.mu.RUnlock()
	if stored == current {
		return nil
	}

	s.log.Info("Secure store changed by another client, reloading session")
	s.reset()
	s.runLogoutHooks()
	err = s.Restore(ctx)
	if !s.IsAuthenticated() {
		s.broadcast()
	}
	return err
}

// Token implements apiclient.TokenSource. It returns "" while logged out
// or once the token has expired.
func (s *Session) Token(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authenticatedLocked() {
		return "", nil
	}
	return s.token, nil
}

// OnLogout registers fn to run whenever the current user's session ends,
// including when another user takes over.
func (s *Session) OnLogout(fn func()) {
	s.subMu.Lock()
	s.onLogout = append(s.onLogout, fn)
	s.subMu.Unlock()
}

func (s *Session) runLogoutHooks() {
	s.subMu.Lock()
	hooks := append([]func(){}, s.onLogout...)
	s.subMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

func (s *Session) reset() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.contacts = nil
	s.expires = time.Time{}
	s.mu.Unlock()
}

// IsAuthenticated reports whether a user is logged in with an unexpired token.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticatedLocked()
}

func (s *Session) authenticatedLocked() bool {
	if s.user == nil {
		return false
	}
	return s.expires.IsZero() || s.now().Before(s.expires)
}

// UserInfo returns a copy of the logged-in user's profile, or nil.
func (s *Session) UserInfo() *models.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Contacts returns the mirrored contact list, highest niveau first.
func (s *Session) Contacts() []models.EmergencyContact {
	s.mu.RLock()
	out := append([]models.EmergencyContact(nil), s.contacts...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Niveau.Rank() < out[j].Niveau.Rank()
	})
	return out
}

// State returns a snapshot of the whole auth context.
func (s *Session) State() models.SessionState {
	s.mu.RLock()
	authenticated := s.authenticatedLocked()
	var user *models.UserInfo
	if s.user != nil {
		u := *s.user
		user = &u
	}
	s.mu.RUnlock()

	contacts := s.Contacts()
	if contacts == nil {
		contacts = []models.EmergencyContact{}
	}
	return models.SessionState{IsAuthenticated: authenticated, UserInfo: user, ContactsInfo: contacts}
}

// updateContacts applies fn to the contact list, mirrors the result into the
// secure store and notifies subscribers.
func (s *Session) updateContacts(ctx context.Context, fn func([]models.EmergencyContact) []models.EmergencyContact) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.contacts = fn(append([]models.EmergencyContact(nil), s.contacts...))
	snapshot := append([]models.EmergencyContact(nil), s.contacts...)
	s.mu.Unlock()

	if err := s.vault.SaveContacts(ctx, snapshot); err != nil {
		s.log.WithError(err).Warn("could not mirror contacts to secure storage")
	}
	s.broadcast()
	return nil
}

// Subscribe returns a channel of state snapshots, starting with the current
// one. Slow subscribers skip intermediate states.
func (s *Session) Subscribe() (<-chan models.SessionState, func()) {
	ch := make(chan models.SessionState, 4)
	ch <- s.State()

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

// Relay publishes every session change on the hub until ctx is done.
func (s *Session) Relay(ctx context.Context, hub *realtime.Hub) {
	states, unsubscribe := s.Subscribe()
	defer unsubscribe()
	<-states // connecting shells read the current state themselves

	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-states:
			if !ok {
				return
			}
			hub.Publish(realtime.EventSession, state)
		}
	}
}

func (s *Session) broadcast() {
	state := s.State()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- state:
		default:
		}
	}
}

// parseExpires understands the backend's "expires" field: RFC3339 string,
// unix timestamp, or a lifetime in seconds.
func parseExpires(raw json.RawMessage, now time.Time) time.Time {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if t, err := time.Parse(time.RFC3339, str); err == nil {
			return t
		}
		if n, err := strconv.ParseFloat(str, 64); err == nil {
			return expiresFromNumber(n, now)
		}
		return time.Time{}
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return expiresFromNumber(n, now)
	}
	return time.Time{}
}

func expiresFromNumber(n float64, now time.Time) time.Time {
	if n <= 0 {
		return time.Time{}
	}
	// Anything below ~2001-09 as a timestamp is a lifetime in seconds.
	if n < 1e9 {
		return now.Add(time.Duration(n * float64(time.Second)))
	}
	return time.Unix(int64(n), 0)
}

// tokenExpiry reads the exp claim without verifying the signature; the
// backend verifies, the client only needs to know when to stop sending it.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
