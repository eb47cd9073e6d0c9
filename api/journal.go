package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/minigarde/portal/session"

	"github.com/pkg/errors"
)

type JournalClient interface {
	GetWeek(ctx context.Context, sess *session.Session, childId, weekStart string) ([]JournalEntryTransport, error)
	UpsertEntry(ctx context.Context, sess *session.Session, entry JournalEntryTransport) (JournalEntryTransport, error)
	SendToParents(ctx context.Context, sess *session.Session, childId, weekStart string) (string, error)
	SendAllToParents(ctx context.Context, sess *session.Session, weekStart string) (string, error)
}

func (c *Client) GetWeek(ctx context.Context, sess *session.Session, childId, weekStart string) ([]JournalEntryTransport, error) {
	query := url.Values{}
	query.Set("child_id", childId)
	query.Set("week_start", weekStart)

	entries := []JournalEntryTransport{}
	if err := c.get(ctx, sess, "/journals", query, &entries); err != nil {
		return nil, errors.Wrap(err, "failed to get journal week")
	}
	return entries, nil
}

func (c *Client) UpsertEntry(ctx context.Context, sess *session.Session, entry JournalEntryTransport) (JournalEntryTransport, error) {
	saved := JournalEntryTransport{}
	if err := c.doJson(ctx, sess, http.MethodPut, "/journals", nil, entry, &saved); err != nil {
		return saved, errors.Wrap(err, "failed to upsert journal entry")
	}
	return saved, nil
}

type sendJournalRequest struct {
	WeekStart string `json:"weekStart"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) SendToParents(ctx context.Context, sess *session.Session, childId, weekStart string) (string, error) {
	resp := messageResponse{}
	err := c.doJson(ctx, sess, http.MethodPost, "/journals/"+childId+"/send-to-parents", nil,
		sendJournalRequest{WeekStart: weekStart}, &resp)
	if err != nil {
		return "", errors.Wrap(err, "failed to send journal to parents")
	}
	return resp.Message, nil
}

func (c *Client) SendAllToParents(ctx context.Context, sess *session.Session, weekStart string) (string, error) {
	resp := messageResponse{}
	err := c.doJson(ctx, sess, http.MethodPost, "/journals/send-all-to-parents", nil,
		sendJournalRequest{WeekStart: weekStart}, &resp)
	if err != nil {
		return "", errors.Wrap(err, "failed to send all journals to parents")
	}
	return resp.Message, nil
}
