package api

import (
	"context"
	"net/url"

	"github.com/minigarde/portal/session"

	"github.com/pkg/errors"
)

type DocumentsClient interface {
	ListDocuments(ctx context.Context, sess *session.Session, filter DocumentFilter) ([]DocumentTransport, error)
	DownloadURL(doc DocumentTransport) string
}

func (c *Client) ListDocuments(ctx context.Context, sess *session.Session, filter DocumentFilter) ([]DocumentTransport, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.GroupId != "" {
		query.Set("group_id", filter.GroupId)
	}
	if filter.ChildId != "" {
		query.Set("child_id", filter.ChildId)
	}

	documents := []DocumentTransport{}
	if err := c.get(ctx, sess, "/documents", query, &documents); err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}
	return documents, nil
}

// DownloadURL points the browser straight at the API; the download itself
// never transits through the portal.
func (c *Client) DownloadURL(doc DocumentTransport) string {
	u := c.buildUrl("/documents/"+doc.Id+"/download", nil)
	return u.String()
}
