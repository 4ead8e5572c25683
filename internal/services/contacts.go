package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/AnshRaj112/saferplace/internal/apiclient"
	"github.com/AnshRaj112/saferplace/internal/models"
	"github.com/AnshRaj112/saferplace/pkg/utils"
	"github.com/sirupsen/logrus"
)

// DefaultMaxContacts is the per-user emergency contact cap.
const DefaultMaxContacts = 5

var (
	ErrContactLimit    = errors.New("emergency contact limit reached")
	ErrContactNotFound = errors.New("emergency contact not found")
)

type addContactRequest struct {
	Name   string        `json:"name"`
	Phone  string        `json:"phone"`
	UserID int64         `json:"user_id"`
	Niveau models.Niveau `json:"niveau"`
}

type addContactResponse struct {
	ID        int64                    `json:"id"`
	ContactID int64                    `json:"contact_id"`
	Contact   *models.EmergencyContact `json:"contact"`
}

type deleteContactRequest struct {
	UserID    int64 `json:"user_id"`
	ContactID int64 `json:"contact_id"`
}

// ContactService manages the logged-in user's emergency contacts. Every
// write is one request/response cycle: local state changes only after the
// backend accepts the change.
type ContactService struct {
	api     *apiclient.Client
	session *Session
	max     int
	log     *logrus.Entry

	// serialises writes so concurrent adds cannot overshoot the cap
	mu sync.Mutex
}

func NewContactService(api *apiclient.Client, session *Session, max int, log *logrus.Entry) *ContactService {
	if max <= 0 {
		max = DefaultMaxContacts
	}
	return &ContactService{api: api, session: session, max: max, log: log}
}

// Max returns the contact cap.
func (c *ContactService) Max() int { return c.max }

// List returns the contacts, highest niveau first.
func (c *ContactService) List() []models.EmergencyContact {
	return c.session.Contacts()
}

// Get finds a contact by id.
func (c *ContactService) Get(id int64) (models.EmergencyContact, bool) {
	for _, contact := range c.session.Contacts() {
		if contact.ID == id {
			return contact, true
		}
	}
	return models.EmergencyContact{}, false
}

// Add validates the form, creates the contact remotely and mirrors it locally.
func (c *ContactService) Add(ctx context.Context, req models.NewContactRequest) (models.EmergencyContact, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync(ctx)

	if len(c.session.Contacts()) >= c.max {
		return models.EmergencyContact{}, ErrContactLimit
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Niveau == "" {
		req.Niveau = models.NiveauMedium
	}
	if err := utils.ValidateStruct(req); err != nil {
		return models.EmergencyContact{}, err
	}

	user := c.session.UserInfo()
	if user == nil {
		return models.EmergencyContact{}, ErrNotAuthenticated
	}

	body := addContactRequest{
		Name:   req.Name,
		Phone:  utils.NormalizePhone(req.Phone),
		UserID: user.ID,
		Niveau: req.Niveau,
	}
	var resp addContactResponse
	if err := c.api.Post(ctx, "/add_emergency_contact", body, &resp); err != nil {
		c.log.WithError(err).Error("Failed to add emergency contact")
		return models.EmergencyContact{}, fmt.Errorf("add emergency contact: %w", err)
	}

	contact := models.EmergencyContact{
		ID:     firstNonZero(resp.ID, resp.ContactID),
		UserID: user.ID,
		Name:   body.Name,
		Phone:  body.Phone,
		Niveau: body.Niveau,
	}
	if resp.Contact != nil && resp.Contact.ID != 0 {
		contact.ID = resp.Contact.ID
	}

	err := c.session.updateContacts(ctx, func(list []models.EmergencyContact) []models.EmergencyContact {
		return append(list, contact)
	})
	if err != nil {
		return models.EmergencyContact{}, err
	}

	c.log.WithFields(logrus.Fields{"contact_id": contact.ID, "niveau": contact.Niveau}).Info("Emergency contact added")
	return contact, nil
}

// Delete removes a contact remotely, then locally.
func (c *ContactService) Delete(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync(ctx)

	user := c.session.UserInfo()
	if user == nil {
		return ErrNotAuthenticated
	}
	if _, ok := c.Get(id); !ok {
		return ErrContactNotFound
	}

	err := c.api.Delete(ctx, "/users/me/contacts", deleteContactRequest{UserID: user.ID, ContactID: id}, nil)
	if err != nil {
		c.log.WithError(err).WithField("contact_id", id).Error("Failed to delete emergency contact")
		return fmt.Errorf("delete emergency contact: %w", err)
	}

	err = c.session.updateContacts(ctx, func(list []models.EmergencyContact) []models.EmergencyContact {
		kept := list[:0]
		for _, contact := range list {
			if contact.ID != id {
				kept = append(kept, contact)
			}
		}
		return kept
	})
	if err != nil {
		return err
	}

	c.log.WithField("contact_id", id).Info("Emergency contact deleted")
	return nil
}

// sync picks up a login or logout made by another client before a write,
// so the user id sent always belongs to the token sent.
func (c *ContactService) sync(ctx context.Context) {
	if err := c.session.Sync(ctx); err != nil {
		c.log.WithError(err).Warn("could not re-read secure storage")
	}
}

func firstNonZero(values ...int64) int64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
