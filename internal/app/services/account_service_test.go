package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
)

func signup(t *testing.T, env *testEnv, req dto.SignupRequest) *dto.AccountUser {
	t.Helper()
	user, err := env.accounts.CreateUserAccount(context.Background(), req)
	require.NoError(t, err)
	return user
}

func TestCreateUserAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := signup(t, env, dto.SignupRequest{
		Email: "asha@uni.edu", Password: "secret123", Name: "Asha", Role: models.RoleStudent,
		StudentID: "S1", Department: "Physics", Year: "2",
	})
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleStudent, user.Role)

	profile, err := env.accounts.GetUserProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Physics", profile.Department)
	assert.Equal(t, "S1", profile.StudentID)
	assert.Equal(t, models.RiskUnknown, profile.MentalHealthProfile.RiskLevel)
	assert.Equal(t, testNow, profile.CreatedAt)
	assert.Nil(t, profile.LastLogin)

	stats, err := env.repos.UserRepository.GetStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalSessions)
	require.NotNil(t, stats.LastActivity)

	byRole, err := env.repos.UserRepository.UsersByRole(ctx, models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, []string{user.ID}, byRole)

	byDept, err := env.repos.UserRepository.UsersByDepartment(ctx, "Physics")
	require.NoError(t, err)
	assert.Equal(t, []string{user.ID}, byDept)
}

func TestCreateUserAccountCounselorSkipsDepartmentIndex(t *testing.T) {
	env := newTestEnv(t)

	signup(t, env, dto.SignupRequest{Email: "c@uni.edu", Password: "pw", Name: "C", Role: models.RoleCounselor, Department: "Health"})

	byDept, err := env.repos.UserRepository.UsersByDepartment(context.Background(), "Health")
	require.NoError(t, err)
	assert.Empty(t, byDept)
}

func TestCreateUserAccountErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.CreateUserAccount(ctx, dto.SignupRequest{Email: "a@uni.edu", Password: "pw", Role: models.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "Missing required fields", err.Error())

	_, err = env.accounts.CreateUserAccount(ctx, dto.SignupRequest{Email: "a@uni.edu", Password: "pw", Name: "A", Role: "instructor"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	signup(t, env, dto.SignupRequest{Email: "a@uni.edu", Password: "pw", Name: "A", Role: models.RoleStudent})
	_, err = env.accounts.CreateUserAccount(ctx, dto.SignupRequest{Email: "A@uni.edu", Password: "pw", Name: "A", Role: models.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	env.provider.err = apperrors.NewServerConfigurationError("missing key")
	_, err = env.accounts.CreateUserAccount(ctx, dto.SignupRequest{Email: "b@uni.edu", Password: "pw", Name: "B", Role: models.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrServerConfiguration)
	assert.Equal(t, "Server configuration error", err.Error())

	env.provider.err = errors.New("connection reset")
	_, err = env.accounts.CreateUserAccount(ctx, dto.SignupRequest{Email: "b@uni.edu", Password: "pw", Name: "B", Role: models.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := signup(t, env, dto.SignupRequest{Email: "a@uni.edu", Password: "pw", Name: "A", Role: models.RoleStudent})

	_, err := env.accounts.Login(ctx, dto.LoginRequest{Email: "a@uni.edu", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	resp, err := env.accounts.Login(ctx, dto.LoginRequest{Email: "a@uni.edu", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := env.accounts.jwtService.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	profile, err := env.accounts.GetUserProfile(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.LastLogin)
	assert.Equal(t, testNow, *profile.LastLogin)

	stats, err := env.repos.UserRepository.GetStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSessions)
}

func TestGetUserProfileNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.accounts.GetUserProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, "Profile not found", err.Error())
}

func TestUpdateUserProfileMergesTopLevelFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := signup(t, env, dto.SignupRequest{Email: "a@uni.edu", Password: "pw", Name: "A", Role: models.RoleStudent, Year: "1"})

	updated, err := env.accounts.UpdateUserProfile(ctx, user.ID, map[string]interface{}{
		"id":       "hijacked",
		"name":     "Asha V",
		"settings": map[string]interface{}{"theme": "dark"},
		"unknown":  "dropped",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, updated.ID)
	assert.Equal(t, "Asha V", updated.Name)
	assert.Equal(t, "1", updated.Year)
	assert.Equal(t, "dark", updated.Settings.Theme)
	// nested objects are replaced as a whole
	assert.False(t, updated.Settings.Notifications)

	stored, err := env.accounts.GetUserProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha V", stored.Name)

	_, err = env.accounts.UpdateUserProfile(ctx, user.ID, map[string]interface{}{"name": 42})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = env.accounts.UpdateUserProfile(ctx, "nobody", map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
