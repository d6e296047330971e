package handlers

import (
	"net/http"

	"github.com/markdave123-py/SpiderCare/internal/api/router"
	"github.com/markdave123-py/SpiderCare/internal/requestdata"
	"github.com/markdave123-py/SpiderCare/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(r *http.Request, _ []string) (*router.Response, error) {
	var req services.RegisterInput
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return router.Success(map[string]any{
		"message": "Registration successful",
		"token":   res.Token,
		"user":    res.User,
	}), nil
}

func (h *AuthHandler) Login(r *http.Request, _ []string) (*router.Response, error) {
	var req services.LoginInput
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return router.Success(map[string]any{
		"message": "Login successful",
		"token":   res.Token,
		"user":    res.User,
	}), nil
}

// Logout drops the session the request was authenticated with.
func (h *AuthHandler) Logout(r *http.Request, _ []string) (*router.Response, error) {
	token := ""
	if rd := requestdata.GetRequestData(r.Context()); rd != nil {
		token = rd.Session.Token
	}
	if err := h.auth.Logout(r.Context(), token); err != nil {
		return nil, err
	}
	return router.Message("Logout successful"), nil
}
