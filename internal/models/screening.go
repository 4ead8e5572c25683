package models

import "time"

// Label is the toxicity classifier's verdict.
type Label string

const (
	LabelToxic    Label = "toxic"
	LabelNotToxic Label = "not_toxic"
)

// Classification is the transient result returned by the toxicity service.
type Classification struct {
	Label    Label   `json:"label"`
	Accuracy float64 `json:"accuracy"`
	// Source is "remote" for the classifier, "local" for the offline keyword screen.
	Source string `json:"source,omitempty"`
}

type Severity string

const (
	SeverityRed    Severity = "red"
	SeverityYellow Severity = "yellow"
	SeverityGreen  Severity = "green"
)

// ContactAction is one row of the emergency-contact list in an alert.
type ContactAction struct {
	Contact EmergencyContact `json:"contact"`
	CallURI string           `json:"call_uri"`
	SMSURI  string           `json:"sms_uri"`
	Color   string           `json:"color"`
}

// Assessment is what the alert modal renders for a classification.
type Assessment struct {
	Label        Label           `json:"label"`
	Confidence   float64         `json:"confidence"` // 0..1, rounded to 2 decimals
	Severity     Severity        `json:"severity"`
	Title        string          `json:"title"`
	Message      string          `json:"message"`
	ShowContacts bool            `json:"show_contacts"`
	Contacts     []ContactAction `json:"contacts,omitempty"`
	AssessedAt   time.Time       `json:"assessed_at"`
}
