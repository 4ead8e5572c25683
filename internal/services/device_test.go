package services

import (
	"context"
	"sync"
)

// recordingDevice captures every device call.
type recordingDevice struct {
	mu       sync.Mutex
	calls    []string
	playErr  error
	dialErr  error
	stopped  int
	notified []string
}

func (d *recordingDevice) record(call string) {
	d.mu.Lock()
	d.calls = append(d.calls, call)
	d.mu.Unlock()
}

func (d *recordingDevice) Dial(_ context.Context, number string) error {
	d.record("dial " + number)
	return d.dialErr
}

func (d *recordingDevice) ComposeSMS(_ context.Context, number, body string) error {
	d.record("sms " + number + " " + body)
	return nil
}

func (d *recordingDevice) Play(_ context.Context, asset string) error {
	d.record("play " + asset)
	return d.playErr
}

func (d *recordingDevice) Stop(context.Context) error {
	d.mu.Lock()
	d.stopped++
	d.mu.Unlock()
	d.record("stop")
	return nil
}

func (d *recordingDevice) Notify(_ context.Context, title, body string) error {
	d.mu.Lock()
	d.notified = append(d.notified, title)
	d.mu.Unlock()
	d.record("notify " + title)
	return nil
}

func (d *recordingDevice) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

func (d *recordingDevice) Stopped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopped
}
