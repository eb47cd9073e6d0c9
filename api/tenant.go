package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/minigarde/portal/session"

	"github.com/pkg/errors"
)

type TenantClient interface {
	GetInfo(ctx context.Context, sess *session.Session) (TenantTransport, error)
	UploadLogo(ctx context.Context, sess *session.Session, filename, contentType string, data []byte) (TenantTransport, error)
	DeleteLogo(ctx context.Context, sess *session.Session) error
	GetSettings(ctx context.Context, sess *session.Session) (SettingsTransport, error)
	UpdateSettings(ctx context.Context, sess *session.Session, settings SettingsTransport) (SettingsTransport, error)
}

func (c *Client) GetInfo(ctx context.Context, sess *session.Session) (TenantTransport, error) {
	tenant := TenantTransport{}
	if err := c.get(ctx, sess, "/tenant-info", nil, &tenant); err != nil {
		return tenant, errors.Wrap(err, "failed to get tenant info")
	}
	return tenant, nil
}

func (c *Client) UploadLogo(ctx context.Context, sess *session.Session, filename, contentType string, data []byte) (TenantTransport, error) {
	tenant := TenantTransport{}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("logo", filename)
	if err != nil {
		return tenant, errors.Wrap(err, "failed to build multipart body")
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return tenant, errors.Wrap(err, "failed to write multipart body")
	}
	if err := writer.Close(); err != nil {
		return tenant, errors.Wrap(err, "failed to finalize multipart body")
	}

	requestUrl := c.buildUrl("/logo", nil)
	req, err := http.NewRequest(http.MethodPost, requestUrl.String(), &body)
	if err != nil {
		return tenant, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.performRequest(ctx, sess, req)
	if err != nil {
		return tenant, errors.Wrap(err, "failed to upload logo")
	}
	defer resp.Body.Close()

	if err := decodeJson(resp.Body, &tenant); err != nil {
		return tenant, err
	}
	return tenant, nil
}

func (c *Client) DeleteLogo(ctx context.Context, sess *session.Session) error {
	if err := c.doJson(ctx, sess, http.MethodDelete, "/logo", nil, nil, nil); err != nil {
		return errors.Wrap(err, "failed to delete logo")
	}
	return nil
}

func (c *Client) GetSettings(ctx context.Context, sess *session.Session) (SettingsTransport, error) {
	settings := SettingsTransport{}
	if err := c.get(ctx, sess, "/settings", nil, &settings); err != nil {
		return settings, errors.Wrap(err, "failed to get settings")
	}
	return settings, nil
}

func (c *Client) UpdateSettings(ctx context.Context, sess *session.Session, settings SettingsTransport) (SettingsTransport, error) {
	updated := SettingsTransport{}
	if err := c.doJson(ctx, sess, http.MethodPut, "/settings", nil, settings, &updated); err != nil {
		return updated, errors.Wrap(err, "failed to update settings")
	}
	return updated, nil
}
