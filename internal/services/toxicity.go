package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/AnshRaj112/saferplace/internal/apiclient"
	"github.com/AnshRaj112/saferplace/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyText       = errors.New("text to verify is empty")
	ErrUnsupportedFile = errors.New("only audio files can be verified")
)

// AudioContentType is what the classifier expects for uploads.
const AudioContentType = "audio/mpeg"

// ToxicityService sends text and audio to the classifier.
type ToxicityService struct {
	api *apiclient.Client
	log *logrus.Entry
}

func NewToxicityService(api *apiclient.Client, log *logrus.Entry) *ToxicityService {
	return &ToxicityService{api: api, log: log}
}

type predictRequest struct {
	Text string `json:"text"`
}

// CheckText classifies a message. When the classifier cannot be reached
// the offline keyword screen answers instead; a clean screen still
// returns the transport error since nothing can be concluded.
func (t *ToxicityService) CheckText(ctx context.Context, text string) (models.Classification, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Classification{}, ErrEmptyText
	}

	var result models.Classification
	err := t.api.Post(ctx, "/predict", predictRequest{Text: text}, &result)
	if err == nil {
		return remote(result)
	}

	// The keyword screen only stands in when the classifier never answered.
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) || errors.Is(err, apiclient.ErrMalformedResponse) || ctx.Err() != nil {
		t.log.WithError(err).Error("Error verifying message")
		return models.Classification{}, fmt.Errorf("verify text: %w", err)
	}

	if harmful, terms := ScreenText(text); harmful {
		t.log.WithError(err).WithField("terms", terms).Warn("classifier unreachable, using keyword screen")
		return localClassification(), nil
	}
	t.log.WithError(err).Error("Error verifying message")
	return models.Classification{}, fmt.Errorf("verify text: %w", err)
}

// CheckAudio uploads an audio recording for classification.
func (t *ToxicityService) CheckAudio(ctx context.Context, name, contentType string, r io.Reader) (models.Classification, error) {
	if !IsAudio(name, contentType) {
		return models.Classification{}, ErrUnsupportedFile
	}

	var result models.Classification
	if err := t.api.Upload(ctx, "/audio_predict", "file", filepath.Base(name), AudioContentType, r, &result); err != nil {
		t.log.WithError(err).WithField("file", name).Error("Error verifying file")
		return models.Classification{}, fmt.Errorf("verify audio: %w", err)
	}
	return remote(result)
}

// IsAudio reports whether a picked document looks like audio, by its
// declared content type or, failing that, its extension.
func IsAudio(name, contentType string) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt != "application/octet-stream" {
		return strings.HasPrefix(mt, "audio/")
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3", ".mpeg", ".wav", ".m4a", ".aac", ".ogg", ".flac", ".amr", ".3gp":
		return true
	}
	return false
}

func remote(c models.Classification) (models.Classification, error) {
	if c.Label != models.LabelToxic && c.Label != models.LabelNotToxic {
		return models.Classification{}, fmt.Errorf("%w: %q", ErrUnknownLabel, c.Label)
	}
	c.Source = "remote"
	return c, nil
}
