package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/SpiderCare/internal/apierr"
	"github.com/markdave123-py/SpiderCare/internal/core"
	"github.com/markdave123-py/SpiderCare/internal/models"
	"github.com/markdave123-py/SpiderCare/internal/security"
	"github.com/markdave123-py/SpiderCare/internal/validation"
)

var validThemes = map[string]bool{"dark": true, "light": true, "system": true}

// SettingsInput mirrors the PUT body. Nil booleans fall back to the
// registration defaults.
type SettingsInput struct {
	DisplayName           *string `json:"display_name"`
	Theme                 string  `json:"theme"`
	MessageHistoryEnabled *bool   `json:"message_history_enabled"`
	NotificationEnabled   *bool   `json:"notification_enabled"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	// LogoutAll revokes every session of the user, the current one included.
	LogoutAll bool `json:"logout_all_sessions"`
}

type UserService struct {
	db     core.DbClient
	hasher *security.Hasher
}

func NewUserService(db core.DbClient, hasher *security.Hasher) *UserService {
	return &UserService{db: db, hasher: hasher}
}

func (s *UserService) Settings(ctx context.Context, userID string) (*models.UserSettings, error) {
	settings, err := s.db.GetUserSettings(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, apierr.NotFound("Settings not found")
	}
	if err != nil {
		return nil, apierr.Internal("An error occurred while fetching settings", err)
	}
	return settings, nil
}

func (s *UserService) UpdateSettings(ctx context.Context, userID string, in SettingsInput) error {
	var display *string
	if in.DisplayName != nil && *in.DisplayName != "" {
		if !validation.Username(*in.DisplayName) {
			return apierr.BadRequest("Display name must be at least 3 characters and can only contain letters, numbers, and underscores")
		}
		display = in.DisplayName
	}
	theme := in.Theme
	if theme == "" {
		theme = "dark"
	}
	if !validThemes[theme] {
		return apierr.BadRequest("Invalid theme value")
	}

	settings := models.DefaultSettings(userID)
	settings.DisplayName = display
	settings.Theme = theme
	if in.MessageHistoryEnabled != nil {
		settings.MessageHistoryEnabled = *in.MessageHistoryEnabled
	}
	if in.NotificationEnabled != nil {
		settings.NotificationEnabled = *in.NotificationEnabled
	}

	err := s.db.UpdateUserSettings(ctx, &settings)
	if errors.Is(err, core.ErrNotFound) {
		return apierr.NotFound("Settings not found")
	}
	if err != nil {
		return apierr.Internal("An error occurred while updating settings", err)
	}
	return nil
}

// ChangePassword re-verifies the current password first. Other sessions
// of the user stay valid unless LogoutAll is set.
func (s *UserService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if !validation.Required(in.CurrentPassword) || !validation.Required(in.NewPassword) {
		return apierr.BadRequest("Current password and new password are required")
	}
	if !validation.Password(in.NewPassword) {
		return apierr.BadRequest("New password must be at least 8 characters long")
	}

	const failMsg = "An error occurred while changing password"

	user, err := s.db.GetUserByID(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return apierr.NotFound("User not found")
	}
	if err != nil {
		return apierr.Internal(failMsg, err)
	}
	if !s.hasher.Verify(in.CurrentPassword, user.PasswordHash) {
		return apierr.Unauthorized("Current password is incorrect")
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return apierr.Internal(failMsg, err)
	}
	if err := s.db.UpdateUserPassword(ctx, userID, hash); err != nil {
		return apierr.Internal(failMsg, err)
	}
	if in.LogoutAll {
		if err := s.db.InvalidateUserSessions(ctx, userID); err != nil {
			return apierr.Internal(failMsg, err)
		}
	}
	return nil
}

// DeleteAccount removes the user and everything it owns in one unit.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.db.DeleteUser(ctx, userID); err != nil {
		return apierr.Internal("An error occurred while deleting account", err)
	}
	log.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}
