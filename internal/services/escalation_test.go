package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/saferplace/internal/models"
)

func TestNormalizeConfidence(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.754, 0.75},
		{0.749, 0.75},
		{0.744, 0.74},
		{85, 0.85},
		{92.4, 0.92},
		{1, 1},
		{150, 1},
		{-3, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeConfidence(tt.in), "input %v", tt.in)
	}
}

func TestAssessSeverity(t *testing.T) {
	contacts := sampleContacts(2)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		label        models.Label
		accuracy     float64
		severity     models.Severity
		title        string
		showContacts bool
	}{
		{"toxic at threshold", models.LabelToxic, 0.75, models.SeverityRed, "Emergency Alert", true},
		{"toxic above threshold", models.LabelToxic, 0.98, models.SeverityRed, "Emergency Alert", true},
		{"toxic below threshold", models.LabelToxic, 0.74, models.SeverityYellow, "Content Warning", true},
		{"toxic percentage", models.LabelToxic, 80, models.SeverityRed, "Emergency Alert", true},
		{"not toxic at threshold", models.LabelNotToxic, 0.85, models.SeverityGreen, "Content Check", false},
		{"not toxic below threshold", models.LabelNotToxic, 0.84, models.SeverityYellow, "Content Check", false},
		{"not toxic percentage", models.LabelNotToxic, 85, models.SeverityGreen, "Content Check", false},
		{"not toxic low percentage", models.LabelNotToxic, 60, models.SeverityYellow, "Content Check", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Assess(models.Classification{Label: tt.label, Accuracy: tt.accuracy}, contacts, now)
			require.NoError(t, err)
			assert.Equal(t, tt.severity, a.Severity)
			assert.Equal(t, tt.title, a.Title)
			assert.Equal(t, tt.showContacts, a.ShowContacts)
			assert.Equal(t, now, a.AssessedAt)
			if tt.showContacts {
				assert.Len(t, a.Contacts, len(contacts))
			} else {
				assert.Empty(t, a.Contacts)
			}
		})
	}
}

func TestAssessMessages(t *testing.T) {
	a, err := Assess(models.Classification{Label: models.LabelToxic, Accuracy: 0.9}, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Warning: Harmful content detected with 90% confidence!", a.Message)

	a, err = Assess(models.Classification{Label: models.LabelToxic, Accuracy: 0.5}, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Potential harmful content detected (50% confidence). Would you like to contact someone?", a.Message)

	a, err = Assess(models.Classification{Label: models.LabelNotToxic, Accuracy: 0.97}, nil, time.Now())
	require.NoError(t, err)
	assert.Contains(t, a.Message, "No concerns detected.")
	assert.Contains(t, a.Message, "Confidence: 97%")
}

func TestAssessContactActions(t *testing.T) {
	contacts := []models.EmergencyContact{{ID: 1, Name: "Mum", Phone: "+33 6 12 34 56 78", Niveau: models.NiveauHigh}}

	a, err := Assess(models.Classification{Label: models.LabelToxic, Accuracy: 0.9}, contacts, time.Now())
	require.NoError(t, err)
	require.Len(t, a.Contacts, 1)

	action := a.Contacts[0]
	assert.Equal(t, "tel:+33612345678", action.CallURI)
	assert.Equal(t, "sms:+33612345678?body=I%20need%20help.%20Please%20contact%20me%20as%20soon%20as%20possible.", action.SMSURI)
	assert.Equal(t, "#ff4444", action.Color)
}

func TestAssessUnknownLabel(t *testing.T) {
	_, err := Assess(models.Classification{Label: "spam", Accuracy: 0.9}, nil, time.Now())
	assert.ErrorIs(t, err, ErrUnknownLabel)
}
