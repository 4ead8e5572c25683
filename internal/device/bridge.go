package device

import (
	"context"
	"errors"
	"time"

	"github.com/AnshRaj112/saferplace/internal/models"
	"github.com/AnshRaj112/saferplace/internal/realtime"
	"github.com/google/uuid"
)

// ErrShellOffline is returned when no UI shell is connected to carry out an intent.
var ErrShellOffline = errors.New("device: no shell connected")

// Bridge implements Device by publishing intents to the connected shell,
// which owns the native APIs.
type Bridge struct {
	hub *realtime.Hub
}

func NewBridge(hub *realtime.Hub) *Bridge {
	return &Bridge{hub: hub}
}

func (b *Bridge) Dial(ctx context.Context, number string) error {
	return b.send(ctx, models.IntentDial, CallURI(number), "")
}

func (b *Bridge) ComposeSMS(ctx context.Context, number, body string) error {
	return b.send(ctx, models.IntentSMS, SMSURI(number, body), body)
}

func (b *Bridge) Play(ctx context.Context, asset string) error {
	return b.send(ctx, models.IntentPlaySound, asset, "")
}

func (b *Bridge) Stop(ctx context.Context) error {
	return b.send(ctx, models.IntentStopSound, "", "")
}

func (b *Bridge) Notify(ctx context.Context, title, body string) error {
	return b.send(ctx, models.IntentNotify, title, body)
}

func (b *Bridge) send(ctx context.Context, action models.IntentAction, target, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.hub.Subscribers() == 0 {
		return ErrShellOffline
	}
	b.hub.Publish(realtime.EventIntent, models.Intent{
		ID:        uuid.NewString(),
		Action:    action,
		Target:    target,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}
