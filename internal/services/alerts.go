package services

import (
	"context"
	"errors"
	"time"

	"github.com/AnshRaj112/saferplace/internal/device"
	"github.com/AnshRaj112/saferplace/internal/models"
	"github.com/AnshRaj112/saferplace/internal/realtime"
	"github.com/sirupsen/logrus"
)

// AlertService decides how to escalate a classification and carries out
// the contact actions the user picks from the alert.
type AlertService struct {
	session *Session
	device  device.Device
	hub     *realtime.Hub
	log     *logrus.Entry
	now     func() time.Time
}

func NewAlertService(session *Session, dev device.Device, hub *realtime.Hub, log *logrus.Entry) *AlertService {
	return &AlertService{session: session, device: dev, hub: hub, log: log, now: time.Now}
}

// Evaluate builds the assessment for c against the current contacts. A red
// assessment also raises a local notification.
func (a *AlertService) Evaluate(ctx context.Context, c models.Classification) (models.Assessment, error) {
	assessment, err := Assess(c, a.session.Contacts(), a.now())
	if err != nil {
		return models.Assessment{}, err
	}

	a.log.WithFields(logrus.Fields{
		"label":      assessment.Label,
		"confidence": assessment.Confidence,
		"severity":   assessment.Severity,
		"source":     c.Source,
	}).Info("content assessed")

	if a.hub != nil {
		a.hub.Publish(realtime.EventAssessment, assessment)
	}

	if assessment.Severity == models.SeverityRed {
		if err := a.device.Notify(ctx, assessment.Title, assessment.Message); err != nil && !errors.Is(err, device.ErrShellOffline) {
			a.log.WithError(err).Warn("could not schedule alert notification")
		}
	}
	return assessment, nil
}

// CallContact asks the device to dial one of the user's contacts.
func (a *AlertService) CallContact(ctx context.Context, id int64) (models.EmergencyContact, error) {
	contact, err := a.contact(ctx, id)
	if err != nil {
		return contact, err
	}
	if err := a.device.Dial(ctx, contact.Phone); err != nil {
		a.log.WithError(err).WithField("contact_id", id).Error("Unable to make a call on this device")
		return contact, err
	}
	return contact, nil
}

// TextContact opens the SMS composer for a contact. An empty body uses HelpMessage.
func (a *AlertService) TextContact(ctx context.Context, id int64, body string) (models.EmergencyContact, error) {
	contact, err := a.contact(ctx, id)
	if err != nil {
		return contact, err
	}
	if body == "" {
		body = HelpMessage
	}
	if err := a.device.ComposeSMS(ctx, contact.Phone, body); err != nil {
		a.log.WithError(err).WithField("contact_id", id).Error("Unable to send SMS on this device")
		return contact, err
	}
	return contact, nil
}

func (a *AlertService) contact(ctx context.Context, id int64) (models.EmergencyContact, error) {
	if err := a.session.Sync(ctx); err != nil {
		a.log.WithError(err).Warn("could not re-read secure storage")
	}
	if !a.session.IsAuthenticated() {
		return models.EmergencyContact{}, ErrNotAuthenticated
	}
	for _, c := range a.session.Contacts() {
		if c.ID == id {
			return c, nil
		}
	}
	return models.EmergencyContact{}, ErrContactNotFound
}
