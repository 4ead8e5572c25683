package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticToken(token string) TokenSource {
	return TokenFunc(func(context.Context) (string, error) { return token, nil })
}

func TestPostSendsJSONAndBearer(t *testing.T) {
	var gotAuth, gotType string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second, WithTokenSource(staticToken("token-abc")))
	var out struct{ Status string }
	require.NoError(t, c.Post(context.Background(), "/contacts", map[string]string{"name": "Mina"}, &out))

	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "Mina", gotBody["name"])
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, srv.URL, c.BaseURL())
}

func TestNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	var seen bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth, seen = r.Header.Get("Authorization"), true
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, WithTokenSource(staticToken("")))
	require.NoError(t, c.Get(context.Background(), "/message-of-the-day", nil))
	assert.True(t, seen)
	assert.Empty(t, gotAuth)
}

func TestTokenSourceFailureAbortsRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	failing := TokenFunc(func(context.Context) (string, error) { return "", errors.New("vault locked") })
	c := New(srv.URL, time.Second, WithTokenSource(failing))
	err := c.Get(context.Background(), "/x", nil)
	assert.ErrorContains(t, err, "vault locked")
	assert.Zero(t, calls)
}

func TestErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := New(srv.URL, time.Second).Delete(context.Background(), "/contacts", map[string]int64{"id": 3}, nil)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.MethodDelete, apiErr.Method)
	assert.Equal(t, "/contacts", apiErr.Path)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, apiErr.Body, "bad credentials")
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.False(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(errors.New("plain"), http.StatusUnauthorized))
}

func TestErrorMessageTruncatesBody(t *testing.T) {
	err := &Error{Method: "GET", Path: "/p", Status: 500, Body: strings.Repeat("x", 500)}
	assert.Len(t, err.Error(), len("GET /p: status 500: ")+203)
}

func TestUploadMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "voice.mp3", header.Filename)
		assert.Equal(t, "audio/mpeg", header.Header.Get("Content-Type"))
		assert.Equal(t, "ID3", string(data))
		_, _ = io.WriteString(w, `{"label":"not_toxic"}`)
	}))
	defer srv.Close()

	var out struct{ Label string }
	err := New(srv.URL, time.Second).Upload(context.Background(), "/audio_predict", "file", "voice.mp3", "audio/mpeg", strings.NewReader("ID3"), &out)
	require.NoError(t, err)
	assert.Equal(t, "not_toxic", out.Label)
}

func TestDecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	}))
	defer srv.Close()

	var out map[string]string
	err := New(srv.URL, time.Second).Get(context.Background(), "/predict", &out)
	assert.ErrorContains(t, err, "decode /predict response")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
