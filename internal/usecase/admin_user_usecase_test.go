package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kidcare/internal/clock"
	"kidcare/internal/domain/model"
	repo "kidcare/internal/repository"
	"kidcare/internal/usecase"
)

type adminUserFixture struct {
	users *UserRepoMock
	audit *AuditRepoMock
	uc    *usecase.AdminUserUsecase
}

func newAdminUserFixture() *adminUserFixture {
	f := &adminUserFixture{users: new(UserRepoMock), audit: new(AuditRepoMock)}
	tx := newTx(&TxReposMock{users: f.users, audit: f.audit})
	f.uc = usecase.NewAdminUserUsecase(tx, f.users, clock.NewFixed(fixedNow))
	return f
}

func mona() *model.User {
	return &model.User{
		ID:          "u1",
		Name:        "Mona Adel",
		Email:       "mona@example.com",
		Phone:       "01011112222",
		Role:        model.RoleUser,
		Governorate: "Cairo",
		City:        "Heliopolis",
		IsActive:    true,
	}
}

func TestAdminUserUsecase_UpdateField_Phone(t *testing.T) {
	f := newAdminUserFixture()
	f.users.On("FindByID", mock.Anything, "u1").Return(mona(), nil)
	f.users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.Phone == "01099998888" })).Return(nil)
	f.audit.On("Create", mock.Anything, auditWith(model.AuditActionUpdateUser, "u1")).Return(nil)

	out, err := f.uc.UpdateField(context.Background(), admin, "u1", usecase.UpdateUserFieldInput{Field: "phone", Value: " 01099998888 "})

	require.NoError(t, err)
	assert.Equal(t, "01099998888", out.Phone)
	assert.Equal(t, "Heliopolis, Cairo", out.Address)
	f.users.AssertNotCalled(t, "IncrementTokenVersion", mock.Anything, mock.Anything)
	f.audit.AssertExpectations(t)
}

func TestAdminUserUsecase_UpdateField_RoleRevokesTokens(t *testing.T) {
	f := newAdminUserFixture()
	f.users.On("FindByID", mock.Anything, "u1").Return(mona(), nil)
	f.users.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.users.On("IncrementTokenVersion", mock.Anything, "u1").Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.UpdateField(context.Background(), admin, "u1", usecase.UpdateUserFieldInput{Field: "role", Value: "PROVIDER"})

	require.NoError(t, err)
	assert.Equal(t, "PROVIDER", out.Role)
	f.users.AssertCalled(t, "IncrementTokenVersion", mock.Anything, "u1")
}

func TestAdminUserUsecase_UpdateField_OwnRoleRejected(t *testing.T) {
	f := newAdminUserFixture()
	self := mona()
	self.ID = admin.ID
	self.Role = model.RoleAdmin
	f.users.On("FindByID", mock.Anything, admin.ID).Return(self, nil)

	_, err := f.uc.UpdateField(context.Background(), admin, admin.ID, usecase.UpdateUserFieldInput{Field: "is_active", Value: "false"})

	requireHTTPError(t, err, http.StatusBadRequest)
	f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAdminUserUsecase_UpdateField_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		in    usecase.UpdateUserFieldInput
		field string
	}{
		{"unknown field", usecase.UpdateUserFieldInput{Field: "email", Value: "x@y.z"}, "field"},
		{"bad role", usecase.UpdateUserFieldInput{Field: "role", Value: "ROOT"}, "role"},
		{"bad phone", usecase.UpdateUserFieldInput{Field: "phone", Value: "12ab"}, "phone"},
		{"empty name", usecase.UpdateUserFieldInput{Field: "name", Value: "  "}, "name"},
		{"bad flag", usecase.UpdateUserFieldInput{Field: "is_active", Value: "maybe"}, "is_active"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminUserFixture()
			f.users.On("FindByID", mock.Anything, "u1").Return(mona(), nil)

			_, err := f.uc.UpdateField(context.Background(), admin, "u1", tt.in)

			he := requireHTTPError(t, err, http.StatusBadRequest)
			assert.Contains(t, he.Fields, tt.field)
			f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestAdminUserUsecase_ForceLogout(t *testing.T) {
	f := newAdminUserFixture()
	f.users.On("FindByID", mock.Anything, "u1").Return(mona(), nil)
	f.users.On("IncrementTokenVersion", mock.Anything, "u1").Return(nil)
	f.audit.On("Create", mock.Anything, auditWith(model.AuditActionForceLogout, "u1")).Return(nil)

	require.NoError(t, f.uc.ForceLogout(context.Background(), admin, "u1"))
	f.users.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func TestAdminUserUsecase_ForceLogout_NotFound(t *testing.T) {
	f := newAdminUserFixture()
	f.users.On("FindByID", mock.Anything, "nobody").Return(nil, repo.ErrNotFound)

	err := f.uc.ForceLogout(context.Background(), admin, "nobody")
	requireHTTPError(t, err, http.StatusNotFound)
}

func TestAdminUserUsecase_List(t *testing.T) {
	f := newAdminUserFixture()
	other := mona()
	other.ID, other.Name, other.Email, other.City = "u2", "Sara Ali", "sara@example.com", "Alexandria"
	f.users.On("List", mock.Anything, "USER").Return([]model.User{*mona(), *other}, nil)

	out, err := f.uc.List(context.Background(), usecase.AdminUserListInput{
		ListInput: usecase.ListInput{Q: "alexandria"},
		Role:      "USER",
	})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "u2", out.Data[0].ID)

	_, err = f.uc.List(context.Background(), usecase.AdminUserListInput{Role: "ROOT"})
	requireHTTPError(t, err, http.StatusBadRequest)
}
