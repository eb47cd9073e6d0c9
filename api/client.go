package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/minigarde/portal/session"

	"github.com/pkg/errors"
)

// Client is the portal's only collaborator: the remote daycare management
// API. One concrete implementation serves every resource-group interface.
type Client struct {
	protocol, hostname string
	httpClient         *http.Client
}

func NewClient(protocol, hostname string) *Client {
	return &Client{
		protocol:   protocol,
		hostname:   hostname,
		httpClient: http.DefaultClient,
	}
}

func (c *Client) buildUrl(path string, query url.Values) url.URL {
	u := url.URL{Scheme: c.protocol, Host: c.hostname, Path: "/api/v1" + path}
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u
}

// get performs a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, sess *session.Session, path string, query url.Values, out interface{}) error {
	return c.doJson(ctx, sess, http.MethodGet, path, query, nil, out)
}

// doJson performs a request with an optional JSON body and decodes the JSON
// response into out when out is non-nil.
func (c *Client) doJson(ctx context.Context, sess *session.Session, method, path string, query url.Values, body, out interface{}) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to json encode the request body")
		}
		payload = bytes.NewReader(b)
	}

	requestUrl := c.buildUrl(path, query)
	req, err := http.NewRequest(method, requestUrl.String(), payload)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.performRequest(ctx, sess, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode json response")
	}
	return nil
}

func decodeJson(r io.Reader, out interface{}) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode json response")
	}
	return nil
}

func (c *Client) performRequest(ctx context.Context, sess *session.Session, r *http.Request) (*http.Response, error) {
	r = r.WithContext(ctx)
	if sess != nil {
		r.Header.Set("Authorization", "Bearer "+sess.Token)
		r.Header.Set("X-Tenant", sess.Tenant)
	}

	resp, err := c.httpClient.Do(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute the http request")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := newError(resp.StatusCode, http.StatusText(resp.StatusCode))
	var errBody struct {
		Error string `json:"error"`
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Error != "" {
		apiErr.Message = errBody.Error
	}

	return nil, errors.Wrapf(apiErr, "server responded with status code %v", resp.StatusCode)
}
