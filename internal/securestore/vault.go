package securestore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/AnshRaj112/saferplace/internal/models"
)

// Storage slots.
const (
	KeyToken        = "jwtToken"
	KeyTokenExpires = "jwtExpires"
	KeyUserInfo     = "userInfo"
	KeyContacts     = "contactsInfo"
)

// Vault gives typed access to the session entries of a Store.
type Vault struct {
	store Store
}

func NewVault(store Store) *Vault {
	return &Vault{store: store}
}

func (v *Vault) SaveToken(ctx context.Context, token string, expires time.Time) error {
	if err := v.store.Set(ctx, KeyToken, token); err != nil {
		return err
	}
	if expires.IsZero() {
		return v.store.Delete(ctx, KeyTokenExpires)
	}
	return v.store.Set(ctx, KeyTokenExpires, expires.UTC().Format(time.RFC3339))
}

// GetToken returns the stored token and its expiry (zero when unknown).
// A missing token is reported as "" with a nil error.
func (v *Vault) GetToken(ctx context.Context) (string, time.Time, error) {
	token, err := v.store.Get(ctx, KeyToken)
	if errors.Is(err, ErrNotFound) {
		return "", time.Time{}, nil
	}
	if err != nil {
		return "", time.Time{}, err
	}

	var expires time.Time
	raw, err := v.store.Get(ctx, KeyTokenExpires)
	switch {
	case err == nil:
		expires, _ = time.Parse(time.RFC3339, raw)
	case !errors.Is(err, ErrNotFound):
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (v *Vault) DeleteToken(ctx context.Context) error {
	if err := v.store.Delete(ctx, KeyToken); err != nil {
		return err
	}
	return v.store.Delete(ctx, KeyTokenExpires)
}

func (v *Vault) SaveUserInfo(ctx context.Context, info models.UserInfo) error {
	return v.putJSON(ctx, KeyUserInfo, info)
}

// GetUserInfo returns nil when no profile is stored.
func (v *Vault) GetUserInfo(ctx context.Context) (*models.UserInfo, error) {
	var info models.UserInfo
	ok, err := v.getJSON(ctx, KeyUserInfo, &info)
	if err != nil || !ok {
		return nil, err
	}
	return &info, nil
}

func (v *Vault) DeleteUserInfo(ctx context.Context) error {
	return v.store.Delete(ctx, KeyUserInfo)
}

func (v *Vault) SaveContacts(ctx context.Context, contacts []models.EmergencyContact) error {
	return v.putJSON(ctx, KeyContacts, contacts)
}

func (v *Vault) GetContacts(ctx context.Context) ([]models.EmergencyContact, error) {
	var contacts []models.EmergencyContact
	if _, err := v.getJSON(ctx, KeyContacts, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (v *Vault) DeleteContacts(ctx context.Context) error {
	return v.store.Delete(ctx, KeyContacts)
}

// Clear removes every session entry. All deletes are attempted and their
// errors joined.
func (v *Vault) Clear(ctx context.Context) error {
	return errors.Join(
		v.DeleteToken(ctx),
		v.DeleteUserInfo(ctx),
		v.DeleteContacts(ctx),
	)
}

func (v *Vault) putJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return v.store.Set(ctx, key, string(data))
}

func (v *Vault) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := v.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}
