package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/AnshRaj112/saferplace/internal/device"
	"github.com/AnshRaj112/saferplace/internal/models"
)

// Confidence cut-offs, on a 0..1 scale.
const (
	ToxicHighConfidence    = 0.75
	NotToxicHighConfidence = 0.85
)

// HelpMessage prefills SMS sent to an emergency contact.
const HelpMessage = "I need help. Please contact me as soon as possible."

var ErrUnknownLabel = errors.New("unknown classification label")

// NormalizeConfidence maps a classifier accuracy onto 0..1 rounded to two
// decimals. Values above 1 are percentages.
func NormalizeConfidence(accuracy float64) float64 {
	if math.IsNaN(accuracy) || accuracy < 0 {
		return 0
	}
	if accuracy > 1 {
		accuracy /= 100
	}
	if accuracy > 1 {
		accuracy = 1
	}
	return math.Round(accuracy*100) / 100
}

// Assess turns a classification into the alert shown to the user. Contacts
// are attached, with call and SMS links, whenever the content is toxic.
func Assess(c models.Classification, contacts []models.EmergencyContact, now time.Time) (models.Assessment, error) {
	confidence := NormalizeConfidence(c.Accuracy)
	percent := fmt.Sprintf("%.0f%%", confidence*100)

	a := models.Assessment{
		Label:      c.Label,
		Confidence: confidence,
		AssessedAt: now.UTC(),
	}

	switch c.Label {
	case models.LabelToxic:
		a.ShowContacts = true
		if confidence >= ToxicHighConfidence {
			a.Severity = models.SeverityRed
			a.Title = "Emergency Alert"
			a.Message = "Warning: Harmful content detected with " + percent + " confidence!"
		} else {
			a.Severity = models.SeverityYellow
			a.Title = "Content Warning"
			a.Message = "Potential harmful content detected (" + percent + " confidence). Would you like to contact someone?"
		}
		a.Contacts = contactActions(contacts)
	case models.LabelNotToxic:
		a.Title = "Content Check"
		if confidence >= NotToxicHighConfidence {
			a.Severity = models.SeverityGreen
			a.Message = "This message appears to be fine! No concerns detected.\nConfidence: " + percent
		} else {
			a.Severity = models.SeverityYellow
			a.Message = "This message appears to be fine! But there is a potential concern.\nConfidence: " + percent
		}
	default:
		return models.Assessment{}, fmt.Errorf("%w: %q", ErrUnknownLabel, c.Label)
	}

	return a, nil
}

func contactActions(contacts []models.EmergencyContact) []models.ContactAction {
	actions := make([]models.ContactAction, 0, len(contacts))
	for _, contact := range contacts {
		actions = append(actions, models.ContactAction{
			Contact: contact,
			CallURI: device.CallURI(contact.Phone),
			SMSURI:  device.SMSURI(contact.Phone, HelpMessage),
			Color:   contact.Niveau.Color(),
		})
	}
	return actions
}
