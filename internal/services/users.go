package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AnshRaj112/saferplace/internal/apiclient"
	"github.com/AnshRaj112/saferplace/internal/models"
	"github.com/AnshRaj112/saferplace/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Statuses returned by POST /add_user.
const (
	StatusUserAdded  = "user added"
	StatusUserExists = "user already exists"
)

// ErrUserExists is returned when the email is already registered.
var ErrUserExists = errors.New("user already exists")

type UserService struct {
	api *apiclient.Client
	log *logrus.Entry
}

func NewUserService(api *apiclient.Client, log *logrus.Entry) *UserService {
	return &UserService{api: api, log: log}
}

type addUserResponse struct {
	Status string `json:"status"`
}

// AddUser registers a new account. The returned banner is what the form
// shows; it is set on every path, including errors.
func (u *UserService) AddUser(ctx context.Context, form models.UserFormData) (models.Banner, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = utils.NormalizePhone(form.Phone)
	if form.Authorization == "" {
		form.Authorization = "false"
	}

	if err := utils.ValidateStruct(form); err != nil {
		var verr *utils.ValidationError
		msg := "Please fill in all fields."
		if errors.As(err, &verr) {
			msg = verr.Message
		}
		return models.NewBanner(models.BannerError, "Error", msg), err
	}

	var resp addUserResponse
	if err := u.api.Post(ctx, "/add_user", form, &resp); err != nil {
		u.log.WithError(err).WithField("email", form.Email).Error("Failed to add user")
		return models.NewBanner(models.BannerWarning, "Warning", "Failed to add user"), fmt.Errorf("add user: %w", err)
	}

	switch resp.Status {
	case StatusUserAdded:
		u.log.WithField("email", form.Email).Info("user added")
		return models.NewBanner(models.BannerSuccess, "Success", "User added successfully"), nil
	case StatusUserExists:
		return models.NewBanner(models.BannerWarning, "Warning", "This email is already in use"), ErrUserExists
	default:
		u.log.WithField("status", resp.Status).Warn("unexpected add_user status")
		return models.NewBanner(models.BannerWarning, "Warning", "Failed to add user"), fmt.Errorf("add user: unexpected status %q", resp.Status)
	}
}
