package children

import (
	"context"
	"strings"
	"time"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/session"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

var (
	ErrEmptyName    = errors.New("firstName and lastName are mandatory")
	ErrBadBirthDate = errors.New("birthDate could not be parsed")
)

// Relationships accepted for a child/parent association.
var Relationships = []string{"parent", "guardian", "caretaker", "other"}

// ChildForm is the staff-facing create/update form. Birth dates are
// accepted in flexible formats and normalized before hitting the API.
type ChildForm struct {
	Id        string
	FirstName string
	LastName  string
	BirthDate string
	GroupId   string
	Notes     string
	IsActive  bool
}

type Service struct {
	Client api.ChildrenClient `inject:""`
	Groups api.GroupsClient   `inject:""`
	Users  api.UsersClient    `inject:""`
}

func (s *Service) List(ctx context.Context, sess *session.Session) ([]api.ChildTransport, error) {
	children, err := s.Client.ListChildren(ctx, sess)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list children")
	}
	return children, nil
}

func (s *Service) Get(ctx context.Context, sess *session.Session, childId string) (api.ChildTransport, error) {
	child, err := s.Client.GetChild(ctx, sess, childId)
	if err != nil {
		return child, errors.Wrap(err, "failed to get child")
	}
	return child, nil
}

func (s *Service) ListGroups(ctx context.Context, sess *session.Session) ([]api.GroupTransport, error) {
	groups, err := s.Groups.ListGroups(ctx, sess)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list groups")
	}
	return groups, nil
}

func (s *Service) ListUsers(ctx context.Context, sess *session.Session) ([]api.UserTransport, error) {
	users, err := s.Users.ListUsers(ctx, sess)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	return users, nil
}

func (s *Service) Create(ctx context.Context, sess *session.Session, form ChildForm) (api.ChildTransport, error) {
	child, err := s.transportFromForm(form)
	if err != nil {
		return api.ChildTransport{}, err
	}
	child.IsActive = true

	created, err := s.Client.CreateChild(ctx, sess, child)
	if err != nil {
		return created, errors.Wrap(err, "failed to create child")
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, sess *session.Session, form ChildForm) (api.ChildTransport, error) {
	child, err := s.transportFromForm(form)
	if err != nil {
		return api.ChildTransport{}, err
	}

	updated, err := s.Client.UpdateChild(ctx, sess, child)
	if err != nil {
		return updated, errors.Wrap(err, "failed to update child")
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, sess *session.Session, childId string) error {
	if err := s.Client.DeleteChild(ctx, sess, childId); err != nil {
		return errors.Wrap(err, "failed to delete child")
	}
	return nil
}

func (s *Service) ListParents(ctx context.Context, sess *session.Session, childId string) ([]api.ChildParentTransport, error) {
	parents, err := s.Client.ListParents(ctx, sess, childId)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list parents")
	}
	return parents, nil
}

func (s *Service) AssignParent(ctx context.Context, sess *session.Session, childId, userId, relationship string) error {
	if !validRelationship(relationship) {
		relationship = "other"
	}
	err := s.Client.AssignParent(ctx, sess, childId, api.AssignParentTransport{
		UserId:       userId,
		Relationship: relationship,
	})
	if err != nil {
		return errors.Wrap(err, "failed to assign parent")
	}
	return nil
}

func (s *Service) RemoveParent(ctx context.Context, sess *session.Session, childId, userId string) error {
	if err := s.Client.RemoveParent(ctx, sess, childId, userId); err != nil {
		return errors.Wrap(err, "failed to remove parent")
	}
	return nil
}

func (s *Service) transportFromForm(form ChildForm) (api.ChildTransport, error) {
	if strings.TrimSpace(form.FirstName) == "" || strings.TrimSpace(form.LastName) == "" {
		return api.ChildTransport{}, ErrEmptyName
	}

	birthDate, err := NormalizeBirthDate(form.BirthDate)
	if err != nil {
		return api.ChildTransport{}, err
	}

	return api.ChildTransport{
		Id:        form.Id,
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		BirthDate: birthDate,
		GroupId:   form.GroupId,
		Notes:     form.Notes,
		IsActive:  form.IsActive,
	}, nil
}

// NormalizeBirthDate accepts flexible input ("2021-03-04", "04/03/2021",
// "March 4, 2021") and returns the API's YYYY-MM-DD form.
func NormalizeBirthDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.Wrap(ErrBadBirthDate, "empty")
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return "", errors.Wrap(ErrBadBirthDate, err.Error())
	}
	return t.Format("2006-01-02"), nil
}

func validRelationship(relationship string) bool {
	for _, r := range Relationships {
		if r == relationship {
			return true
		}
	}
	return false
}
