package api

import (
	"context"
	"net/http"

	"github.com/minigarde/portal/session"

	"github.com/pkg/errors"
)

type AuthClient interface {
	Login(ctx context.Context, email, password string) (LoginResponse, error)
	ChangePassword(ctx context.Context, sess *session.Session, currentPassword, newPassword string) error
	UpdateEmail(ctx context.Context, sess *session.Session, newEmail, password string) error
	GetConsent(ctx context.Context, sess *session.Session) (ConsentTransport, error)
	UpdateConsent(ctx context.Context, sess *session.Session, photosAccepted bool) (ConsentTransport, error)
	RequestAccountDeletion(ctx context.Context, sess *session.Session) error
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	resp := LoginResponse{}
	err := c.doJson(ctx, nil, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return resp, errors.Wrap(err, "failed to login")
	}
	return resp, nil
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (c *Client) ChangePassword(ctx context.Context, sess *session.Session, currentPassword, newPassword string) error {
	err := c.doJson(ctx, sess, http.MethodPost, "/auth/change-password", nil,
		changePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword}, nil)
	if err != nil {
		return errors.Wrap(err, "failed to change password")
	}
	return nil
}

type updateEmailRequest struct {
	NewEmail string `json:"newEmail"`
	Password string `json:"password"`
}

func (c *Client) UpdateEmail(ctx context.Context, sess *session.Session, newEmail, password string) error {
	err := c.doJson(ctx, sess, http.MethodPost, "/auth/update-email", nil,
		updateEmailRequest{NewEmail: newEmail, Password: password}, nil)
	if err != nil {
		return errors.Wrap(err, "failed to update email")
	}
	return nil
}

func (c *Client) GetConsent(ctx context.Context, sess *session.Session) (ConsentTransport, error) {
	consent := ConsentTransport{}
	if err := c.get(ctx, sess, "/auth/consent", nil, &consent); err != nil {
		return consent, errors.Wrap(err, "failed to get consent")
	}
	return consent, nil
}

type updateConsentRequest struct {
	PhotosAccepted bool `json:"photosAccepted"`
}

func (c *Client) UpdateConsent(ctx context.Context, sess *session.Session, photosAccepted bool) (ConsentTransport, error) {
	consent := ConsentTransport{}
	err := c.doJson(ctx, sess, http.MethodPut, "/auth/consent", nil,
		updateConsentRequest{PhotosAccepted: photosAccepted}, &consent)
	if err != nil {
		return consent, errors.Wrap(err, "failed to update consent")
	}
	return consent, nil
}

func (c *Client) RequestAccountDeletion(ctx context.Context, sess *session.Session) error {
	if err := c.doJson(ctx, sess, http.MethodPost, "/auth/delete-account", nil, nil, nil); err != nil {
		return errors.Wrap(err, "failed to request account deletion")
	}
	return nil
}
