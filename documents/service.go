package documents

import (
	"context"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/session"

	"github.com/pkg/errors"
)

// Audience levels for a document's visibility badge.
const (
	AudienceChild  = "child"
	AudienceGroup  = "group"
	AudiencePublic = "public"
)

// Categories the library filter offers, in display order.
var Categories = []string{"formulaire", "menu", "politique", "bulletin", "autre"}

// Entry is one document enriched with the presentation-only fields the
// library page needs.
type Entry struct {
	api.DocumentTransport
	Audience    string
	DownloadUrl string
}

type Service struct {
	Client api.DocumentsClient `inject:""`
}

// Audience resolves the visibility badge with strict precedence:
// child-scoped beats group-scoped beats public.
func Audience(doc api.DocumentTransport) string {
	if doc.ChildId != "" {
		return AudienceChild
	}
	if doc.GroupId != "" {
		return AudienceGroup
	}
	return AudiencePublic
}

// List fetches the library, optionally filtered by category, and computes
// each document's badge and download link.
func (s *Service) List(ctx context.Context, sess *session.Session, category string) ([]Entry, error) {
	docs, err := s.Client.ListDocuments(ctx, sess, api.DocumentFilter{Category: category})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}

	entries := make([]Entry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, Entry{
			DocumentTransport: doc,
			Audience:          Audience(doc),
			DownloadUrl:       s.Client.DownloadURL(doc),
		})
	}
	return entries, nil
}
