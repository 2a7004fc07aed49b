package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/app/repositories"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/auth"
	"github.com/yigit/mindcare/internal/pkg/identity"
)

// AccountService manages signup, login and user profiles
type AccountService struct {
	provider   identity.Provider
	userRepo   *repositories.UserRepository
	jwtService *auth.JWTService
	activity   ActivityRecorder
	logger     zerolog.Logger
	now        Clock
}

// NewAccountService creates a new AccountService
func NewAccountService(
	provider identity.Provider,
	userRepo *repositories.UserRepository,
	jwtService *auth.JWTService,
	activity ActivityRecorder,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		provider:   provider,
		userRepo:   userRepo,
		jwtService: jwtService,
		activity:   activity,
		logger:     logger,
		now:        utcNow,
	}
}

// CreateUserAccount registers the credentials with the identity provider and
// writes the initial profile, statistics and indexes.
func (s *AccountService) CreateUserAccount(ctx context.Context, req dto.SignupRequest) (*dto.AccountUser, error) {
	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || req.Password == "" || name == "" || req.Role == "" {
		return nil, apperrors.NewValidationError(msgMissingFields)
	}
	if !req.Role.Valid() {
		return nil, apperrors.NewValidationError("role must be one of student, counselor, admin")
	}

	s.logger.Debug().Str("email", email).Str("role", string(req.Role)).Msg("Creating user account")

	userID, err := s.provider.CreateUser(ctx, identity.NewUser{
		Email:    email,
		Password: req.Password,
		Name:     name,
		Role:     string(req.Role),
	})
	if err != nil {
		return nil, s.providerError(err, email)
	}

	now := s.now()
	profile := models.NewUserProfile(userID, email, name, req.Role, now)
	profile.StudentID = req.StudentID
	profile.Department = req.Department
	profile.Year = req.Year

	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to store profile")
		return nil, apperrors.NewUpstreamError(msgAccountUnavailable, err)
	}

	stats := &models.UserStats{LastActivity: &now}
	if err := s.userRepo.SaveStats(ctx, userID, stats); err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to store user stats")
		return nil, apperrors.NewUpstreamError(msgAccountUnavailable, err)
	}

	if err := s.userRepo.AddToRoleIndex(ctx, req.Role, userID); err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to index user by role")
		return nil, apperrors.NewUpstreamError(msgAccountUnavailable, err)
	}
	if req.Role == models.RoleStudent && req.Department != "" {
		if err := s.userRepo.AddToDepartmentIndex(ctx, req.Department, userID); err != nil {
			s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to index user by department")
			return nil, apperrors.NewUpstreamError(msgAccountUnavailable, err)
		}
	}

	s.logger.Info().Str("userID", userID).Str("role", string(req.Role)).Msg("User account created")
	return &dto.AccountUser{ID: userID, Email: email, Name: name, Role: req.Role}, nil
}

func (s *AccountService) providerError(err error, email string) error {
	switch {
	case errors.Is(err, apperrors.ErrServerConfiguration):
		s.logger.Error().Err(err).Msg("Identity provider is not configured")
		return apperrors.NewServerConfigurationError(msgServerConfig)
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "An account with this email already exists")
	default:
		s.logger.Error().Err(err).Str("email", email).Msg("Identity provider failed to create user")
		return apperrors.NewUpstreamError(msgAccountUnavailable, err)
	}
}

// Login verifies the credentials and issues an access token
func (s *AccountService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	userID, err := s.provider.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid email or password")
		case errors.Is(err, apperrors.ErrServerConfiguration):
			return nil, apperrors.NewServerConfigurationError(msgServerConfig)
		}
		s.logger.Error().Err(err).Msg("Identity provider failed to authenticate")
		return nil, apperrors.NewUpstreamError("Failed to log in", err)
	}

	now := s.now()
	profile, err := s.userRepo.UpdateProfile(ctx, userID, func(p *models.UserProfile) error {
		p.LastLogin = &now
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewNotFoundError(msgProfileNotFound)
		}
		return nil, fmt.Errorf("failed to stamp last login: %w", err)
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(profile.ID, profile.Email, string(profile.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	recordBestEffort(ctx, s.activity, s.logger, userID, models.ActivitySessionStart, nil)

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User: dto.AccountUser{
			ID:    profile.ID,
			Email: profile.Email,
			Name:  profile.Name,
			Role:  profile.Role,
		},
	}, nil
}

// GetUserProfile returns the stored profile
func (s *AccountService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewNotFoundError(msgProfileNotFound)
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// UpdateUserProfile overlays the top-level fields of updates onto the stored
// profile. Nested objects are replaced, not merged; the id cannot change.
func (s *AccountService) UpdateUserProfile(ctx context.Context, userID string, updates map[string]interface{}) (*models.UserProfile, error) {
	profile, err := s.userRepo.UpdateProfile(ctx, userID, func(p *models.UserProfile) error {
		return mergeProfile(p, updates)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewNotFoundError(msgProfileNotFound)
		}
		if errors.Is(err, apperrors.ErrValidationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Debug().Str("userID", userID).Int("fields", len(updates)).Msg("Profile updated")
	return profile, nil
}

func mergeProfile(p *models.UserProfile, updates map[string]interface{}) error {
	current, err := json.Marshal(p)
	if err != nil {
		return err
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(current, &fields); err != nil {
		return err
	}
	for k, v := range updates {
		if k == "id" {
			continue
		}
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	var next models.UserProfile
	if err := json.Unmarshal(merged, &next); err != nil {
		return apperrors.NewValidationError("profile update has invalid field types")
	}
	if next.Role != "" && !next.Role.Valid() {
		return apperrors.NewValidationError("role must be one of student, counselor, admin")
	}
	next.ID = p.ID
	*p = next
	return nil
}
