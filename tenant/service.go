package tenant

import (
	"context"
	"strconv"
	"strings"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/session"

	"github.com/pkg/errors"
)

var (
	ErrInvalidTime = errors.New("auto-send time must be HH:MM")
	ErrEmptyLogo   = errors.New("logo file is empty")
)

// maxLogoBytes caps what the portal forwards to the API.
const maxLogoBytes = 2 << 20

type Service struct {
	Client api.TenantClient `inject:""`
}

func (s *Service) Info(ctx context.Context, sess *session.Session) (api.TenantTransport, error) {
	info, err := s.Client.GetInfo(ctx, sess)
	if err != nil {
		return info, errors.Wrap(err, "failed to get tenant info")
	}
	return info, nil
}

func (s *Service) UploadLogo(ctx context.Context, sess *session.Session, filename, contentType string, data []byte) (api.TenantTransport, error) {
	if len(data) == 0 {
		return api.TenantTransport{}, ErrEmptyLogo
	}
	if len(data) > maxLogoBytes {
		return api.TenantTransport{}, errors.Wrap(api.ErrServerBadRequest, "logo exceeds 2 MiB")
	}

	info, err := s.Client.UploadLogo(ctx, sess, filename, contentType, data)
	if err != nil {
		return info, errors.Wrap(err, "failed to upload logo")
	}
	return info, nil
}

func (s *Service) DeleteLogo(ctx context.Context, sess *session.Session) error {
	if err := s.Client.DeleteLogo(ctx, sess); err != nil {
		return errors.Wrap(err, "failed to delete logo")
	}
	return nil
}

func (s *Service) Settings(ctx context.Context, sess *session.Session) (api.SettingsTransport, error) {
	settings, err := s.Client.GetSettings(ctx, sess)
	if err != nil {
		return settings, errors.Wrap(err, "failed to get settings")
	}
	return settings, nil
}

func (s *Service) UpdateAutoSendTime(ctx context.Context, sess *session.Session, value string) (api.SettingsTransport, error) {
	if !ValidAutoSendTime(value) {
		return api.SettingsTransport{}, ErrInvalidTime
	}

	settings, err := s.Client.UpdateSettings(ctx, sess, api.SettingsTransport{JournalAutoSendTime: value})
	if err != nil {
		return settings, errors.Wrap(err, "failed to update settings")
	}
	return settings, nil
}

// ValidAutoSendTime mirrors the API's HH:MM rule so obvious typos are
// caught before a round trip.
func ValidAutoSendTime(value string) bool {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return false
	}
	return true
}
