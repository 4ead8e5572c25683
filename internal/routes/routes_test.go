package routes

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/saferplace/internal/app"
	"github.com/AnshRaj112/saferplace/internal/config"
	"github.com/AnshRaj112/saferplace/internal/device"
	"github.com/AnshRaj112/saferplace/internal/handlers"
	"github.com/AnshRaj112/saferplace/internal/logger"
	"github.com/AnshRaj112/saferplace/internal/middleware"
	"github.com/AnshRaj112/saferplace/internal/models"
	"github.com/AnshRaj112/saferplace/internal/realtime"
	"github.com/AnshRaj112/saferplace/internal/services"
)

// remote stands in for the backend and the third-party services.
type remote struct {
	srv   *httptest.Server
	mu    sync.Mutex
	paths map[string]http.HandlerFunc
	calls map[string]int
}

func newRemote(t *testing.T) *remote {
	rm := &remote{paths: map[string]http.HandlerFunc{}, calls: map[string]int{}}
	rm.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		rm.mu.Lock()
		rm.calls[key]++
		h := rm.paths[key]
		rm.mu.Unlock()
		if h == nil {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(rm.srv.Close)
	return rm
}

func (rm *remote) reply(method, path string, status int, body interface{}) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.paths[method+" "+path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func (rm *remote) count(method, path string) int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.calls[method+" "+path]
}

type gateway struct {
	remote *remote
	app    *app.App
	router http.Handler
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	rm := newRemote(t)

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cfg := &config.Config{
		APIBaseURL:      rm.srv.URL,
		ToxicityURL:     rm.srv.URL,
		ChatbotURL:      rm.srv.URL,
		QuoteURL:        rm.srv.URL,
		HTTPTimeout:     5 * time.Second,
		AllowedOrigins:  []string{"http://localhost:8081"},
		SecureStore:     "file",
		SecureStorePath: filepath.Join(t.TempDir(), "secure.json"),
		EncryptionKey:   base64.StdEncoding.EncodeToString(key),
		EmergencyNumber: "911",
		AlarmDuration:   time.Minute,
		MaxContacts:     5,
	}
	log := logger.Discard()
	a, err := app.New(context.Background(), cfg, log, func(*realtime.Hub) device.Device {
		return device.NewConsole(io.Discard)
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)

	h := &handlers.Handler{
		Session:   a.Session,
		Contacts:  a.Contacts,
		Alerts:    a.Alerts,
		Toxicity:  a.Toxicity,
		Users:     a.Users,
		Chatbot:   a.Chatbot,
		Quotes:    a.Quotes,
		Emergency: a.Emergency,
		Hub:       a.Hub,
		Log:       logger.Component(log, "http"),

		AllowedOrigins: cfg.AllowedOrigins,
	}
	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Gateway(middleware.NewRateLimits(), cfg.AllowedOrigins)...)
	SetupRoutes(r, h)

	return &gateway{remote: rm, app: a, router: r}
}

func (g *gateway) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "127.0.0.1:40000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	g.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func contacts(n int) []models.EmergencyContact {
	out := make([]models.EmergencyContact, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.EmergencyContact{
			ID:     int64(i + 1),
			UserID: 42,
			Name:   "Contact " + string(rune('A'+i)),
			Phone:  "+3361234567" + string(rune('0'+i)),
			Niveau: models.NiveauMedium,
		})
	}
	return out
}

func (g *gateway) login(t *testing.T, list []models.EmergencyContact) {
	t.Helper()
	g.remote.reply(http.MethodPost, "/login", http.StatusOK, map[string]interface{}{
		"access_token": "token-abc",
		"expires":      3600,
		"user":         map[string]interface{}{"id": 42, "name": "Awa", "email": "awa@example.com", "authorization": "true"},
		"contacts":     list,
	})
	rec := g.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "awa@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	g := newGateway(t)
	rec := g.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestRejectsRemotePeers(t *testing.T) {
	g := newGateway(t)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.RemoteAddr = "192.168.1.50:40000"
	rec := httptest.NewRecorder()
	g.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRejectsForeignOrigins(t *testing.T) {
	g := newGateway(t)
	g.login(t, contacts(1))
	srv := httptest.NewServer(g.router)
	defer srv.Close()

	// A page in a local browser connects from loopback but names itself.
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/events"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://localhost:8081"}})
	require.NoError(t, err)
	conn.Close()

	for _, path := range []string{"/api/emergency", "/api/auth/logout"} {
		req, err := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader("x"))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "text/plain")
		req.Header.Set("Origin", "https://evil.example")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}
	assert.False(t, g.app.Emergency.Active())
	assert.True(t, g.app.Session.IsAuthenticated())
}

func TestLoginAndListContacts(t *testing.T) {
	g := newGateway(t)

	rec := g.do(t, http.MethodGet, "/api/contacts", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	g.login(t, contacts(2))

	var me handlers.SessionResponse
	decode(t, g.do(t, http.MethodGet, "/api/auth/me", nil), &me)
	assert.True(t, me.IsAuthenticated)
	require.NotNil(t, me.UserInfo)
	assert.Equal(t, "Awa", me.UserInfo.Name)

	var list handlers.ContactsResponse
	rec = g.do(t, http.MethodGet, "/api/contacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	assert.Len(t, list.Contacts, 2)
	assert.Equal(t, 5, list.Max)

	rec = g.do(t, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = g.do(t, http.MethodGet, "/api/contacts", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginFailure(t *testing.T) {
	g := newGateway(t)
	g.remote.reply(http.MethodPost, "/login", http.StatusUnauthorized, map[string]string{"detail": "bad credentials"})

	rec := g.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "awa@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp handlers.Response
	decode(t, rec, &resp)
	assert.Equal(t, "Invalid username or password.", resp.Message)
	assert.False(t, g.app.Session.IsAuthenticated())

	rec = g.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "", "password": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddContactRespectsCap(t *testing.T) {
	g := newGateway(t)
	g.login(t, contacts(4))
	g.remote.reply(http.MethodPost, "/add_emergency_contact", http.StatusOK, map[string]int64{"id": 99})

	rec := g.do(t, http.MethodPost, "/api/contacts", map[string]string{"name": "Mina", "phone": "06 12 34 56 78", "niveau": "high"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created handlers.ContactResponse
	decode(t, rec, &created)
	assert.Equal(t, int64(99), created.Contact.ID)
	assert.Equal(t, "0612345678", created.Contact.Phone)

	rec = g.do(t, http.MethodPost, "/api/contacts", map[string]string{"name": "Sixth", "phone": "0600000000"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp handlers.Response
	decode(t, rec, &resp)
	assert.Equal(t, "You can only add up to 5 emergency contacts.", resp.Message)
	assert.Equal(t, 1, g.remote.count(http.MethodPost, "/add_emergency_contact"))
}

func TestDeleteAndCallContact(t *testing.T) {
	g := newGateway(t)
	g.login(t, contacts(2))
	g.remote.reply(http.MethodDelete, "/users/me/contacts", http.StatusOK, map[string]string{"status": "deleted"})

	rec := g.do(t, http.MethodPost, "/api/contacts/1/call", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = g.do(t, http.MethodPost, "/api/contacts/2/sms", map[string]string{"body": "Call me"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = g.do(t, http.MethodDelete, "/api/contacts/1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, g.app.Session.Contacts(), 1)

	assert.Equal(t, http.StatusNotFound, g.do(t, http.MethodDelete, "/api/contacts/1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, g.do(t, http.MethodDelete, "/api/contacts/abc", nil).Code)
}

func TestVerifyTextEscalates(t *testing.T) {
	g := newGateway(t)
	g.login(t, contacts(1))
	g.remote.reply(http.MethodPost, "/predict", http.StatusOK, map[string]interface{}{"label": "toxic", "accuracy": 92})

	rec := g.do(t, http.MethodPost, "/api/verify/text", map[string]string{"text": "you will regret this"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handlers.AssessmentResponse
	decode(t, rec, &resp)
	assert.Equal(t, models.SeverityRed, resp.Assessment.Severity)
	assert.Equal(t, 0.92, resp.Assessment.Confidence)
	assert.True(t, resp.Assessment.ShowContacts)
	require.Len(t, resp.Assessment.Contacts, 1)
	assert.Equal(t, "remote", resp.Source)

	rec = g.do(t, http.MethodPost, "/api/verify/text", map[string]string{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyFileRejectsDocuments(t *testing.T) {
	g := newGateway(t)

	var body bytes.Buffer
	body.WriteString("--b\r\nContent-Disposition: form-data; name=\"file\"; filename=\"notes.pdf\"\r\nContent-Type: application/pdf\r\n\r\n%PDF\r\n--b--\r\n")
	req := httptest.NewRequest(http.MethodPost, "/api/verify/file", &body)
	req.RemoteAddr = "127.0.0.1:40000"
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	rec := httptest.NewRecorder()
	g.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Zero(t, g.remote.count(http.MethodPost, "/audio_predict"))
}

func TestQuoteIsCached(t *testing.T) {
	g := newGateway(t)
	g.remote.reply(http.MethodGet, "/message-of-the-day", http.StatusOK, models.Quote{ID: 7, Title: "Courage", Content: "One step at a time."})

	for i := 0; i < 2; i++ {
		rec := g.do(t, http.MethodGet, "/api/quote", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp handlers.QuoteResponse
		decode(t, rec, &resp)
		assert.Equal(t, "Courage", resp.Quote.Title)
	}
	assert.Equal(t, 1, g.remote.count(http.MethodGet, "/message-of-the-day"))

	g.do(t, http.MethodGet, "/api/quote?refresh=true", nil)
	assert.Equal(t, 2, g.remote.count(http.MethodGet, "/message-of-the-day"))
}

func TestQuoteFailure(t *testing.T) {
	g := newGateway(t)
	g.remote.reply(http.MethodGet, "/message-of-the-day", http.StatusInternalServerError, map[string]string{})

	rec := g.do(t, http.MethodGet, "/api/quote", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var resp handlers.Response
	decode(t, rec, &resp)
	assert.Equal(t, services.QuoteErrorText, resp.Message)
}

func TestStaticContent(t *testing.T) {
	g := newGateway(t)

	var tutorial handlers.TutorialResponse
	decode(t, g.do(t, http.MethodGet, "/api/content/tutorial", nil), &tutorial)
	assert.Len(t, tutorial.Pages, 3)

	var intro handlers.IntroductionResponse
	decode(t, g.do(t, http.MethodGet, "/api/content/introduction", nil), &intro)
	assert.Len(t, intro.Messages, 3)
	assert.Equal(t, services.IntroductionInterval, intro.IntervalMS)
}

func TestChatRoundTrip(t *testing.T) {
	g := newGateway(t)
	g.remote.reply(http.MethodPost, "/chat", http.StatusOK, map[string]interface{}{
		"response": map[string]string{"answer": "You are not alone."},
	})

	rec := g.do(t, http.MethodPost, "/api/chat", map[string]string{"query": "I feel unsafe"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp handlers.ChatResponse
	decode(t, rec, &resp)
	assert.Equal(t, "You are not alone.", resp.Reply.Text)

	var transcript handlers.TranscriptResponse
	decode(t, g.do(t, http.MethodGet, "/api/chat", nil), &transcript)
	assert.Len(t, transcript.Messages, 2)
}

func TestLogoutClearsChatTranscript(t *testing.T) {
	g := newGateway(t)
	g.login(t, nil)
	g.remote.reply(http.MethodPost, "/chat", http.StatusOK, map[string]interface{}{
		"response": map[string]string{"answer": "You are not alone."},
	})

	rec := g.do(t, http.MethodPost, "/api/chat", map[string]string{"query": "I feel unsafe"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = g.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var transcript handlers.TranscriptResponse
	decode(t, g.do(t, http.MethodGet, "/api/chat", nil), &transcript)
	assert.Empty(t, transcript.Messages)
}

func TestEventsStream(t *testing.T) {
	g := newGateway(t)
	srv := httptest.NewServer(g.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	readEvent := func() map[string]json.RawMessage {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var evt map[string]json.RawMessage
		require.NoError(t, conn.ReadJSON(&evt))
		return evt
	}

	first := readEvent()
	assert.JSONEq(t, `"session"`, string(first["type"]))

	resp, err := http.Post(srv.URL+"/api/emergency", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	evt := readEvent()
	assert.JSONEq(t, `"emergency"`, string(evt["type"]))
	assert.JSONEq(t, `{"active":true}`, string(evt["data"]))

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "sync"}))
	assert.JSONEq(t, `"session"`, string(readEvent()["type"]))
}
