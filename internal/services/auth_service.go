package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/SpiderCare/internal/apierr"
	"github.com/markdave123-py/SpiderCare/internal/core"
	"github.com/markdave123-py/SpiderCare/internal/models"
	"github.com/markdave123-py/SpiderCare/internal/requestdata"
	"github.com/markdave123-py/SpiderCare/internal/security"
	"github.com/markdave123-py/SpiderCare/internal/validation"
)

const (
	msgUsernameRule = "Username must be at least 3 characters and can only contain letters, numbers, and underscores."
	msgEmailRule    = "Please enter a valid email address."
	msgPasswordRule = "Password must be at least 8 characters long."
	msgBadLogin     = "Invalid email or password."
)

var registerSchema = validation.Schema{
	"username": {Required: true, Validate: func(v any, _ map[string]any) string {
		if s, _ := v.(string); validation.Username(s) {
			return ""
		}
		return msgUsernameRule
	}},
	"email": {Required: true, Validate: func(v any, _ map[string]any) string {
		if s, _ := v.(string); validation.Email(s) {
			return ""
		}
		return msgEmailRule
	}},
	"password": {Required: true, Validate: func(v any, _ map[string]any) string {
		if s, _ := v.(string); validation.Password(s) {
			return ""
		}
		return msgPasswordRule
	}},
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// AuthService owns the session token lifecycle.
type AuthService struct {
	db     core.DbClient
	hasher *security.Hasher
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(db core.DbClient, hasher *security.Hasher, ttl time.Duration) *AuthService {
	return &AuthService{db: db, hasher: hasher, ttl: ttl, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	res := validation.ValidateForm(map[string]any{
		"username": in.Username,
		"email":    in.Email,
		"password": in.Password,
	}, registerSchema)
	if !res.Valid {
		return nil, apierr.Validation(registerMessage(res), res.Errors)
	}

	const failMsg = "An error occurred during registration. Please try again."

	if _, err := s.db.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, apierr.Conflict("A user with this email already exists.")
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, apierr.Internal(failMsg, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apierr.Internal(failMsg, err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, core.ErrEmailTaken) {
			return nil, apierr.Conflict("A user with this email already exists.")
		}
		return nil, apierr.Internal(failMsg, err)
	}

	token, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, apierr.Internal(failMsg, err)
	}

	log.Info().Str("user_id", user.ID).Msg("user registered")
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// registerMessage picks the headline for a failed registration. Missing
// fields take precedence, then the first invalid field in form order.
func registerMessage(res validation.Result) string {
	for _, msg := range res.Errors {
		if strings.HasSuffix(msg, " is required") {
			return "All fields are required."
		}
	}
	for _, f := range []string{"username", "email", "password"} {
		if msg, ok := res.Errors[f]; ok {
			return msg
		}
	}
	return "Invalid input."
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, apierr.BadRequest("Email and password are required.")
	}

	const failMsg = "An error occurred during login. Please try again."

	user, err := s.db.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, core.ErrNotFound) {
		return nil, apierr.Unauthorized(msgBadLogin)
	}
	if err != nil {
		return nil, apierr.Internal(failMsg, err)
	}
	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, apierr.Unauthorized(msgBadLogin)
	}

	token, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, apierr.Internal(failMsg, err)
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// Logout invalidates only the presented token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return apierr.Unauthorized("Unauthorized")
	}
	if err := s.db.InvalidateSession(ctx, token); err != nil {
		return apierr.Internal("An error occurred during logout. Please try again.", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its live session and user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*requestdata.RequestData, error) {
	sess, err := s.db.GetSessionByToken(ctx, token, s.now())
	if errors.Is(err, core.ErrNotFound) {
		return nil, apierr.Unauthorized("Invalid or expired token")
	}
	if err != nil {
		return nil, apierr.Internal("Authentication error", err)
	}

	user, err := s.db.GetUserByID(ctx, sess.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, apierr.Unauthorized("User not found")
	}
	if err != nil {
		return nil, apierr.Internal("Authentication error", err)
	}

	return &requestdata.RequestData{User: user.Public(), Session: *sess}, nil
}

func (s *AuthService) startSession(ctx context.Context, userID string) (string, error) {
	token, err := security.GenerateToken()
	if err != nil {
		return "", err
	}
	now := s.now()
	err = s.db.CreateSession(ctx, &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	})
	if err != nil {
		return "", err
	}
	return token, nil
}
