package services

import (
	"context"
	"sync"
	"time"

	"github.com/AnshRaj112/saferplace/internal/device"
	"github.com/AnshRaj112/saferplace/internal/realtime"
	"github.com/sirupsen/logrus"
)

// DefaultAlarmDuration is how long the alarm plays before stopping on its own.
const DefaultAlarmDuration = 10 * time.Second

// EmergencyState is published whenever the button toggles.
type EmergencyState struct {
	Active bool `json:"active"`
}

// EmergencyButton sounds the alarm and calls the emergency number. Pressing
// it again while active silences the alarm.
type EmergencyButton struct {
	device   device.Device
	hub      *realtime.Hub
	number   string
	duration time.Duration
	log      *logrus.Entry

	mu     sync.Mutex
	active bool
	timer  *time.Timer
	// gen invalidates a timer that fired after a manual stop.
	gen uint64
}

func NewEmergencyButton(dev device.Device, hub *realtime.Hub, number string, duration time.Duration, log *logrus.Entry) *EmergencyButton {
	if number == "" {
		number = "911"
	}
	if duration <= 0 {
		duration = DefaultAlarmDuration
	}
	return &EmergencyButton{device: dev, hub: hub, number: number, duration: duration, log: log}
}

// Active reports whether the alarm is sounding.
func (b *EmergencyButton) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Press toggles the button and returns the new state. Activating plays the
// alarm and dials the emergency number even if the sound fails.
func (b *EmergencyButton) Press(ctx context.Context) (bool, error) {
	b.mu.Lock()
	if b.active {
		b.deactivateLocked()
		b.mu.Unlock()
		b.stopSound(ctx)
		b.publish(false)
		return false, nil
	}

	b.active = true
	b.gen++
	gen := b.gen
	b.timer = time.AfterFunc(b.duration, func() { b.expire(gen) })
	b.mu.Unlock()

	b.publish(true)
	if err := b.device.Play(ctx, device.AlarmSound); err != nil {
		b.log.WithError(err).Error("Error playing sound")
	}

	if err := b.device.Dial(ctx, b.number); err != nil {
		b.log.WithError(err).WithField("number", b.number).Error("emergency call failed")
		return true, err
	}
	b.log.WithField("number", b.number).Warn("emergency call placed")
	return true, nil
}

// Close stops the alarm and releases the timer.
func (b *EmergencyButton) Close() {
	b.mu.Lock()
	wasActive := b.active
	b.deactivateLocked()
	b.mu.Unlock()

	if wasActive {
		b.stopSound(context.Background())
		b.publish(false)
	}
}

func (b *EmergencyButton) expire(gen uint64) {
	b.mu.Lock()
	if !b.active || gen != b.gen {
		b.mu.Unlock()
		return
	}
	b.deactivateLocked()
	b.mu.Unlock()

	b.stopSound(context.Background())
	b.publish(false)
}

func (b *EmergencyButton) deactivateLocked() {
	b.active = false
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *EmergencyButton) stopSound(ctx context.Context) {
	if err := b.device.Stop(ctx); err != nil {
		b.log.WithError(err).Warn("could not stop alarm")
	}
}

func (b *EmergencyButton) publish(active bool) {
	if b.hub != nil {
		b.hub.Publish(realtime.EventEmergency, EmergencyState{Active: active})
	}
}
