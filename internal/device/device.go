// Package device abstracts the phone capabilities the app relies on:
// dialing, SMS, sound playback and local notifications.
package device

import (
	"context"
	"net/url"
	"strings"

	"github.com/AnshRaj112/saferplace/pkg/utils"
)

// AlarmSound is the asset the shell plays for the emergency button.
const AlarmSound = "alarm.wav"

type Dialer interface {
	Dial(ctx context.Context, number string) error
}

type SMSComposer interface {
	ComposeSMS(ctx context.Context, number, body string) error
}

type SoundPlayer interface {
	Play(ctx context.Context, asset string) error
	Stop(ctx context.Context) error
}

// Notifier schedules a local push notification.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Device bundles every capability.
type Device interface {
	Dialer
	SMSComposer
	SoundPlayer
	Notifier
}

// CallURI builds the tel: link for a phone number.
func CallURI(number string) string {
	return "tel:" + utils.NormalizePhone(number)
}

// SMSURI builds the sms: link, with an optional prefilled body. Spaces are
// sent as %20: a "+" in an sms: body is a literal plus sign.
func SMSURI(number, body string) string {
	uri := "sms:" + utils.NormalizePhone(number)
	if body != "" {
		uri += "?body=" + strings.ReplaceAll(url.QueryEscape(body), "+", "%20")
	}
	return uri
}
