package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AnshRaj112/saferplace/internal/apiclient"
	"github.com/AnshRaj112/saferplace/internal/models"
	"github.com/AnshRaj112/saferplace/internal/realtime"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ChatErrorReply is appended to the transcript when the assistant fails.
const ChatErrorReply = "Sorry, I couldn't process your message. Please try again."

const maxTranscript = 200

type chatQuery struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Query    string `json:"query"`
}

type chatReply struct {
	Response struct {
		Answer string `json:"answer"`
	} `json:"response"`
}

// ChatbotService talks to the support assistant and keeps the transcript
// for the current run.
type ChatbotService struct {
	api     *apiclient.Client
	session *Session
	hub     *realtime.Hub
	limiter *rate.Limiter
	log     *logrus.Entry
	now     func() time.Time

	mu       sync.Mutex
	messages []models.ChatMessage
}

// NewChatbotService allows one query per second with bursts of three.
func NewChatbotService(api *apiclient.Client, session *Session, hub *realtime.Hub, log *logrus.Entry) *ChatbotService {
	return &ChatbotService{
		api:     api,
		session: session,
		hub:     hub,
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
		log:     log,
		now:     time.Now,
	}
}

// Ask sends query to the assistant and returns its reply. Blank queries
// are ignored and return a zero message.
func (c *ChatbotService) Ask(ctx context.Context, query string) (models.ChatMessage, error) {
	if strings.TrimSpace(query) == "" {
		return models.ChatMessage{}, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return models.ChatMessage{}, err
	}

	c.append(query, false)

	req := chatQuery{Query: query}
	if u := c.session.UserInfo(); u != nil {
		req.UserID = u.ID
		req.Username = u.Name
	}

	var reply chatReply
	if err := c.api.Post(ctx, "/chat", req, &reply); err != nil {
		c.log.WithError(err).Error("Error sending message")
		return c.append(ChatErrorReply, true), fmt.Errorf("chat: %w", err)
	}
	return c.append(reply.Response.Answer, true), nil
}

// Transcript returns a copy of the conversation so far.
func (c *ChatbotService) Transcript() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Reset clears the transcript.
func (c *ChatbotService) Reset() {
	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()
}

func (c *ChatbotService) append(text string, bot bool) models.ChatMessage {
	now := c.now()
	msg := models.ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		IsBot:     bot,
		Timestamp: now.UTC(),
	}

	c.mu.Lock()
	c.messages = append(c.messages, msg)
	if len(c.messages) > maxTranscript {
		c.messages = c.messages[len(c.messages)-maxTranscript:]
	}
	c.mu.Unlock()

	if c.hub != nil {
		c.hub.Publish(realtime.EventChat, msg)
	}
	return msg
}
