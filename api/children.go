package api

import (
	"context"
	"net/http"

	"github.com/minigarde/portal/session"

	"github.com/pkg/errors"
)

type ChildrenClient interface {
	ListChildren(ctx context.Context, sess *session.Session) ([]ChildTransport, error)
	GetChild(ctx context.Context, sess *session.Session, childId string) (ChildTransport, error)
	CreateChild(ctx context.Context, sess *session.Session, child ChildTransport) (ChildTransport, error)
	UpdateChild(ctx context.Context, sess *session.Session, child ChildTransport) (ChildTransport, error)
	DeleteChild(ctx context.Context, sess *session.Session, childId string) error
	ListParents(ctx context.Context, sess *session.Session, childId string) ([]ChildParentTransport, error)
	AssignParent(ctx context.Context, sess *session.Session, childId string, assign AssignParentTransport) error
	RemoveParent(ctx context.Context, sess *session.Session, childId, userId string) error
}

func (c *Client) ListChildren(ctx context.Context, sess *session.Session) ([]ChildTransport, error) {
	children := []ChildTransport{}
	if err := c.get(ctx, sess, "/children", nil, &children); err != nil {
		return nil, errors.Wrap(err, "failed to list children")
	}
	return children, nil
}

func (c *Client) GetChild(ctx context.Context, sess *session.Session, childId string) (ChildTransport, error) {
	child := ChildTransport{}
	if err := c.get(ctx, sess, "/children/"+childId, nil, &child); err != nil {
		return child, errors.Wrap(err, "failed to get child")
	}
	return child, nil
}

func (c *Client) CreateChild(ctx context.Context, sess *session.Session, child ChildTransport) (ChildTransport, error) {
	created := ChildTransport{}
	if err := c.doJson(ctx, sess, http.MethodPost, "/children", nil, child, &created); err != nil {
		return created, errors.Wrap(err, "failed to create child")
	}
	return created, nil
}

func (c *Client) UpdateChild(ctx context.Context, sess *session.Session, child ChildTransport) (ChildTransport, error) {
	updated := ChildTransport{}
	if err := c.doJson(ctx, sess, http.MethodPut, "/children/"+child.Id, nil, child, &updated); err != nil {
		return updated, errors.Wrap(err, "failed to update child")
	}
	return updated, nil
}

func (c *Client) DeleteChild(ctx context.Context, sess *session.Session, childId string) error {
	if err := c.doJson(ctx, sess, http.MethodDelete, "/children/"+childId, nil, nil, nil); err != nil {
		return errors.Wrap(err, "failed to delete child")
	}
	return nil
}

func (c *Client) ListParents(ctx context.Context, sess *session.Session, childId string) ([]ChildParentTransport, error) {
	parents := []ChildParentTransport{}
	if err := c.get(ctx, sess, "/children/"+childId+"/parents", nil, &parents); err != nil {
		return nil, errors.Wrap(err, "failed to list parents")
	}
	return parents, nil
}

func (c *Client) AssignParent(ctx context.Context, sess *session.Session, childId string, assign AssignParentTransport) error {
	if err := c.doJson(ctx, sess, http.MethodPost, "/children/"+childId+"/parents", nil, assign, nil); err != nil {
		return errors.Wrap(err, "failed to assign parent")
	}
	return nil
}

func (c *Client) RemoveParent(ctx context.Context, sess *session.Session, childId, userId string) error {
	if err := c.doJson(ctx, sess, http.MethodDelete, "/children/"+childId+"/parents/"+userId, nil, nil, nil); err != nil {
		return errors.Wrap(err, "failed to remove parent")
	}
	return nil
}

type GroupsClient interface {
	ListGroups(ctx context.Context, sess *session.Session) ([]GroupTransport, error)
}

func (c *Client) ListGroups(ctx context.Context, sess *session.Session) ([]GroupTransport, error) {
	groups := []GroupTransport{}
	if err := c.get(ctx, sess, "/groups", nil, &groups); err != nil {
		return nil, errors.Wrap(err, "failed to list groups")
	}
	return groups, nil
}

type UsersClient interface {
	ListUsers(ctx context.Context, sess *session.Session) ([]UserTransport, error)
}

func (c *Client) ListUsers(ctx context.Context, sess *session.Session) ([]UserTransport, error) {
	users := []UserTransport{}
	if err := c.get(ctx, sess, "/users", nil, &users); err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	return users, nil
}
