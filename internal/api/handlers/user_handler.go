package handlers

import (
	"net/http"

	"github.com/markdave123-py/SpiderCare/internal/api/router"
	"github.com/markdave123-py/SpiderCare/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetSettings(r *http.Request, _ []string) (*router.Response, error) {
	uid, err := userID(r)
	if err != nil {
		return nil, err
	}
	settings, err := h.users.Settings(r.Context(), uid)
	if err != nil {
		return nil, err
	}
	return router.Success(map[string]any{"settings": settings}), nil
}

func (h *UserHandler) UpdateSettings(r *http.Request, _ []string) (*router.Response, error) {
	uid, err := userID(r)
	if err != nil {
		return nil, err
	}
	var req services.SettingsInput
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	if err := h.users.UpdateSettings(r.Context(), uid, req); err != nil {
		return nil, err
	}
	return router.Message("Settings updated successfully"), nil
}

func (h *UserHandler) ChangePassword(r *http.Request, _ []string) (*router.Response, error) {
	uid, err := userID(r)
	if err != nil {
		return nil, err
	}
	var req services.ChangePasswordInput
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	if err := h.users.ChangePassword(r.Context(), uid, req); err != nil {
		return nil, err
	}
	return router.Message("Password updated successfully"), nil
}

func (h *UserHandler) DeleteAccount(r *http.Request, _ []string) (*router.Response, error) {
	uid, err := userID(r)
	if err != nil {
		return nil, err
	}
	if err := h.users.DeleteAccount(r.Context(), uid); err != nil {
		return nil, err
	}
	return router.Message("Account deleted successfully"), nil
}
