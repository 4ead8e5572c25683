package models

// Niveau is the priority level of an emergency contact.
type Niveau string

const (
	NiveauHigh   Niveau = "high"
	NiveauMedium Niveau = "medium"
	NiveauLow    Niveau = "low"
)

// Valid reports whether n is one of the known levels.
func (n Niveau) Valid() bool {
	switch n {
	case NiveauHigh, NiveauMedium, NiveauLow:
		return true
	}
	return false
}

// Rank orders levels for display, high first.
func (n Niveau) Rank() int {
	switch n {
	case NiveauHigh:
		return 0
	case NiveauLow:
		return 2
	default:
		return 1
	}
}

// Color is the badge color shown next to a contact.
func (n Niveau) Color() string {
	switch n {
	case NiveauHigh:
		return "#ff4444"
	case NiveauLow:
		return "#00C851"
	default:
		return "#ffbb33"
	}
}

type EmergencyContact struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Niveau Niveau `json:"niveau"`
}

// NewContactRequest is what the add-contact form collects.
type NewContactRequest struct {
	Name   string `json:"name" validate:"required"`
	Phone  string `json:"phone" validate:"required,phone"`
	Niveau Niveau `json:"niveau" validate:"omitempty,oneof=high medium low"`
}
