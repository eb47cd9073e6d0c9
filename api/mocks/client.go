package mocks

import (
	"context"

	"github.com/minigarde/portal/api"
	"github.com/minigarde/portal/session"

	"github.com/stretchr/testify/mock"
)

type MockJournalClient struct {
	mock.Mock
}

func (m *MockJournalClient) GetWeek(ctx context.Context, sess *session.Session, childId, weekStart string) ([]api.JournalEntryTransport, error) {
	args := m.Called(ctx, sess, childId, weekStart)
	return args.Get(0).([]api.JournalEntryTransport), args.Error(1)
}

func (m *MockJournalClient) UpsertEntry(ctx context.Context, sess *session.Session, entry api.JournalEntryTransport) (api.JournalEntryTransport, error) {
	args := m.Called(ctx, sess, entry)
	return args.Get(0).(api.JournalEntryTransport), args.Error(1)
}

func (m *MockJournalClient) SendToParents(ctx context.Context, sess *session.Session, childId, weekStart string) (string, error) {
	args := m.Called(ctx, sess, childId, weekStart)
	return args.Get(0).(string), args.Error(1)
}

func (m *MockJournalClient) SendAllToParents(ctx context.Context, sess *session.Session, weekStart string) (string, error) {
	args := m.Called(ctx, sess, weekStart)
	return args.Get(0).(string), args.Error(1)
}

type MockChildrenClient struct {
	mock.Mock
}

func (m *MockChildrenClient) ListChildren(ctx context.Context, sess *session.Session) ([]api.ChildTransport, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]api.ChildTransport), args.Error(1)
}

func (m *MockChildrenClient) GetChild(ctx context.Context, sess *session.Session, childId string) (api.ChildTransport, error) {
	args := m.Called(ctx, sess, childId)
	return args.Get(0).(api.ChildTransport), args.Error(1)
}

func (m *MockChildrenClient) CreateChild(ctx context.Context, sess *session.Session, child api.ChildTransport) (api.ChildTransport, error) {
	args := m.Called(ctx, sess, child)
	return args.Get(0).(api.ChildTransport), args.Error(1)
}

func (m *MockChildrenClient) UpdateChild(ctx context.Context, sess *session.Session, child api.ChildTransport) (api.ChildTransport, error) {
	args := m.Called(ctx, sess, child)
	return args.Get(0).(api.ChildTransport), args.Error(1)
}

func (m *MockChildrenClient) DeleteChild(ctx context.Context, sess *session.Session, childId string) error {
	args := m.Called(ctx, sess, childId)
	return args.Error(0)
}

func (m *MockChildrenClient) ListParents(ctx context.Context, sess *session.Session, childId string) ([]api.ChildParentTransport, error) {
	args := m.Called(ctx, sess, childId)
	return args.Get(0).([]api.ChildParentTransport), args.Error(1)
}

func (m *MockChildrenClient) AssignParent(ctx context.Context, sess *session.Session, childId string, assign api.AssignParentTransport) error {
	args := m.Called(ctx, sess, childId, assign)
	return args.Error(0)
}

func (m *MockChildrenClient) RemoveParent(ctx context.Context, sess *session.Session, childId, userId string) error {
	args := m.Called(ctx, sess, childId, userId)
	return args.Error(0)
}

type MockGroupsClient struct {
	mock.Mock
}

func (m *MockGroupsClient) ListGroups(ctx context.Context, sess *session.Session) ([]api.GroupTransport, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]api.GroupTransport), args.Error(1)
}

type MockUsersClient struct {
	mock.Mock
}

func (m *MockUsersClient) ListUsers(ctx context.Context, sess *session.Session) ([]api.UserTransport, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]api.UserTransport), args.Error(1)
}

type MockDocumentsClient struct {
	mock.Mock
}

func (m *MockDocumentsClient) ListDocuments(ctx context.Context, sess *session.Session, filter api.DocumentFilter) ([]api.DocumentTransport, error) {
	args := m.Called(ctx, sess, filter)
	return args.Get(0).([]api.DocumentTransport), args.Error(1)
}

func (m *MockDocumentsClient) DownloadURL(doc api.DocumentTransport) string {
	args := m.Called(doc)
	return args.Get(0).(string)
}

type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) Login(ctx context.Context, email, password string) (api.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(api.LoginResponse), args.Error(1)
}

func (m *MockAuthClient) ChangePassword(ctx context.Context, sess *session.Session, currentPassword, newPassword string) error {
	args := m.Called(ctx, sess, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockAuthClient) UpdateEmail(ctx context.Context, sess *session.Session, newEmail, password string) error {
	args := m.Called(ctx, sess, newEmail, password)
	return args.Error(0)
}

func (m *MockAuthClient) GetConsent(ctx context.Context, sess *session.Session) (api.ConsentTransport, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).(api.ConsentTransport), args.Error(1)
}

func (m *MockAuthClient) UpdateConsent(ctx context.Context, sess *session.Session, photosAccepted bool) (api.ConsentTransport, error) {
	args := m.Called(ctx, sess, photosAccepted)
	return args.Get(0).(api.ConsentTransport), args.Error(1)
}

func (m *MockAuthClient) RequestAccountDeletion(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

type MockTenantClient struct {
	mock.Mock
}

func (m *MockTenantClient) GetInfo(ctx context.Context, sess *session.Session) (api.TenantTransport, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).(api.TenantTransport), args.Error(1)
}

func (m *MockTenantClient) UploadLogo(ctx context.Context, sess *session.Session, filename, contentType string, data []byte) (api.TenantTransport, error) {
	args := m.Called(ctx, sess, filename, contentType, data)
	return args.Get(0).(api.TenantTransport), args.Error(1)
}

func (m *MockTenantClient) DeleteLogo(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *MockTenantClient) GetSettings(ctx context.Context, sess *session.Session) (api.SettingsTransport, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).(api.SettingsTransport), args.Error(1)
}

func (m *MockTenantClient) UpdateSettings(ctx context.Context, sess *session.Session, settings api.SettingsTransport) (api.SettingsTransport, error) {
	args := m.Called(ctx, sess, settings)
	return args.Get(0).(api.SettingsTransport), args.Error(1)
}
