package models

import "time"

// Quote is the message of the day. Display only.
type Quote struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ChatMessage is one line of the chatbot transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsBot     bool      `json:"isBot"`
	Timestamp time.Time `json:"timestamp"`
}

type TutorialPage struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type BannerVariant string

const (
	BannerInfo    BannerVariant = "info"
	BannerSuccess BannerVariant = "success"
	BannerWarning BannerVariant = "warning"
	BannerError   BannerVariant = "error"
)

// DefaultBannerDuration is how long a banner stays up unless told otherwise.
const DefaultBannerDuration = 3 * time.Second

// Banner is a transient alert shown at the top of a screen.
type Banner struct {
	Variant    BannerVariant `json:"variant"`
	Title      string        `json:"title,omitempty"`
	Message    string        `json:"message"`
	DurationMS int64         `json:"duration_ms"`
}

// NewBanner builds a banner with the default duration. An empty variant is info.
func NewBanner(variant BannerVariant, title, message string) Banner {
	if variant == "" {
		variant = BannerInfo
	}
	return Banner{
		Variant:    variant,
		Title:      title,
		Message:    message,
		DurationMS: DefaultBannerDuration.Milliseconds(),
	}
}
