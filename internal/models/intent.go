package models

import "time"

// IntentAction names a device capability the UI shell must perform.
type IntentAction string

const (
	IntentDial      IntentAction = "dial"
	IntentSMS       IntentAction = "sms"
	IntentPlaySound IntentAction = "play_sound"
	IntentStopSound IntentAction = "stop_sound"
	IntentNotify    IntentAction = "notify"
)

// Intent is a device action request pushed to the shell over the event stream.
type Intent struct {
	ID        string       `json:"id"`
	Action    IntentAction `json:"action"`
	Target    string       `json:"target,omitempty"` // URI, sound asset, or notification title
	Body      string       `json:"body,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
