package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"postcraft.app/postcraft/internal/auth"
	"postcraft.app/postcraft/internal/globaltime"
	"postcraft.app/postcraft/internal/store"
)

const defaultSessionTouchInterval = time.Minute

type authPrincipal struct {
	SessionID string
	UserID    int64
	Username  string
	ExpiresAt time.Time
}

type authUserResponse struct {
	UserUUID    string     `json:"userUuid"`
	Username    string     `json:"username"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*store.User, error)
	GetUserByUsername(ctx context.Context, username string) (*store.User, error)
	GetUserByID(ctx context.Context, userID int64) (*store.User, error)
	MarkUserLogin(ctx context.Context, userID int64, at time.Time) error
	CreateSession(ctx context.Context, sessionID string, userID int64, expiresAt time.Time) error
	GetSession(ctx context.Context, sessionID string) (*store.Session, *store.User, error)
	TouchSession(ctx context.Context, sessionID string, seenAt time.Time) error
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

func (s *Server) authDataStore() authStore {
	if s == nil {
		return nil
	}
	if s.authStore != nil {
		return s.authStore
	}
	if s.pool == nil {
		return nil
	}
	return s.pool
}

func (s *Server) requireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c == nil {
				return unauthorizedResponse(c)
			}
			store := s.authDataStore()
			if store == nil {
				return internalError(c, "Failed to authorize request")
			}

			sessionID, found := s.sessionIDFromCookie(c)
			if !found {
				return unauthorizedResponse(c)
			}

			session, user, err := store.GetSession(c.Request().Context(), sessionID)
			if err != nil {
				if isSessionMiss(err) {
					s.clearSessionCookie(c)
					return unauthorizedResponse(c)
				}
				s.logger.Error().Err(err).Msg("session lookup failed")
				return internalError(c, "Failed to authorize request")
			}

			now := globaltime.UTC()
			if !session.ExpiresAt.After(now) {
				_ = store.DeleteSession(c.Request().Context(), session.SessionID)
				s.clearSessionCookie(c)
				return unauthorizedResponse(c)
			}

			if now.Sub(session.LastSeenAt) >= defaultSessionTouchInterval {
				_ = store.TouchSession(c.Request().Context(), session.SessionID, now)
			}

			c.Set("auth.principal", authPrincipal{
				SessionID: session.SessionID,
				UserID:    user.UserID,
				Username:  user.Username,
				ExpiresAt: session.ExpiresAt.UTC(),
			})

			return next(c)
		}
	}
}

func (s *Server) handleSignup(c echo.Context) error {
	dataStore := s.authDataStore()
	if dataStore == nil {
		return internalError(c, "Failed to process signup")
	}

	var req signupRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	req.Username = auth.NormalizeUsername(req.Username)
	req.Password = strings.TrimSpace(req.Password)
	if fieldErrors := s.validateStruct(req); len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("hash password failed")
		return internalError(c, "Failed to process signup")
	}

	user, err := dataStore.CreateUser(c.Request().Context(), req.Username, passwordHash)
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return fail(c, http.StatusConflict, "Username is already taken", nil)
		}
		s.logger.Error().Err(err).Str("username", req.Username).Msg("create user failed")
		return internalError(c, "Failed to process signup")
	}

	sessionID, expiresAt, err := s.openSession(c, dataStore, user.UserID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.UserID).Msg("create session failed")
		return internalError(c, "Failed to process signup")
	}

	return successWithStatus(c, http.StatusCreated, map[string]any{
		"user": buildAuthUserResponse(user),
		"session": map[string]any{
			"sessionId": sessionID,
			"expiresAt": expiresAt.UTC(),
		},
	})
}

func (s *Server) handleLogin(c echo.Context) error {
	dataStore := s.authDataStore()
	if dataStore == nil {
		return internalError(c, "Failed to process login")
	}

	var req loginRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	username := auth.NormalizeUsername(req.Username)
	password := strings.TrimSpace(req.Password)
	if username == "" {
		return failValidation(c, map[string]string{"username": "is required"})
	}

	user, err := dataStore.GetUserByUsername(c.Request().Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return fail(c, http.StatusUnauthorized, "Invalid username or password", nil)
		}
		s.logger.Error().Err(err).Str("username", username).Msg("login lookup failed")
		return internalError(c, "Failed to process login")
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return fail(c, http.StatusUnauthorized, "Invalid username or password", nil)
	}

	now := globaltime.UTC()
	if _, cleanupErr := dataStore.DeleteExpiredSessions(c.Request().Context()); cleanupErr != nil {
		s.logger.Warn().Err(cleanupErr).Msg("delete expired sessions failed")
	}

	sessionID, expiresAt, err := s.openSession(c, dataStore, user.UserID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.UserID).Msg("create session failed")
		return internalError(c, "Failed to process login")
	}

	if err := dataStore.MarkUserLogin(c.Request().Context(), user.UserID, now); err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.UserID).Msg("update last login failed")
	}
	nowCopy := now
	user.LastLoginAt = &nowCopy

	return success(c, map[string]any{
		"user": buildAuthUserResponse(user),
		"session": map[string]any{
			"sessionId": sessionID,
			"expiresAt": expiresAt.UTC(),
		},
	})
}

func (s *Server) handleLogout(c echo.Context) error {
	dataStore := s.authDataStore()
	if sessionID, found := s.sessionIDFromCookie(c); found {
		if dataStore != nil {
			_ = dataStore.DeleteSession(c.Request().Context(), sessionID)
		}
	}
	s.clearSessionCookie(c)
	return success(c, map[string]any{"loggedOut": true})
}

func (s *Server) handleMe(c echo.Context) error {
	dataStore := s.authDataStore()
	if dataStore == nil {
		return internalError(c, "Failed to load user")
	}

	principal, ok := principalFromContext(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	user, err := dataStore.GetUserByID(c.Request().Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return unauthorizedResponse(c)
		}
		s.logger.Error().Err(err).Int64("user_id", principal.UserID).Msg("load me user failed")
		return internalError(c, "Failed to load user")
	}

	return success(c, map[string]any{
		"user": buildAuthUserResponse(user),
	})
}

// openSession mints a token, persists the session, and sets the cookie.
func (s *Server) openSession(c echo.Context, dataStore authStore, userID int64) (string, time.Time, error) {
	sessionID, err := auth.NewSessionToken()
	if err != nil {
		return "", time.Time{}, err
	}

	expiresAt := globaltime.UTC().Add(s.opts.SessionTTL)
	if err := dataStore.CreateSession(c.Request().Context(), sessionID, userID, expiresAt); err != nil {
		return "", time.Time{}, err
	}

	s.setSessionCookie(c, sessionID, expiresAt)
	return sessionID, expiresAt, nil
}

func (s *Server) validateStruct(value any) map[string]string {
	if s == nil || s.validate == nil {
		return nil
	}
	err := s.validate.Struct(value)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return map[string]string{"body": "is invalid"}
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fieldErrors[fieldKey(fieldErr)] = fieldMessage(fieldErr)
	}
	return fieldErrors
}

func fieldKey(fieldErr validator.FieldError) string {
	field := fieldErr.Field()
	if field == "" {
		return "body"
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required", "required_without":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldErr.Param())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("is invalid (%s)", fieldErr.Tag())
	}
}

func isSessionMiss(err error) bool {
	return errors.Is(err, store.ErrNoRows) || errors.Is(err, store.ErrSessionExpired)
}

func unauthorizedResponse(c echo.Context) error {
	if c == nil {
		return fmt.Errorf("authentication required")
	}
	return fail(c, http.StatusUnauthorized, "Authentication required", nil)
}

func buildAuthUserResponse(row *store.User) authUserResponse {
	if row == nil {
		return authUserResponse{}
	}
	return authUserResponse{
		UserUUID:    row.UserUUID,
		Username:    row.Username,
		CreatedAt:   row.CreatedAt.UTC(),
		LastLoginAt: row.LastLoginAt,
	}
}

func principalFromContext(c echo.Context) (authPrincipal, bool) {
	if c == nil {
		return authPrincipal{}, false
	}
	value := c.Get("auth.principal")
	principal, ok := value.(authPrincipal)
	if !ok {
		return authPrincipal{}, false
	}
	return principal, true
}

func (s *Server) sessionIDFromCookie(c echo.Context) (string, bool) {
	if c == nil {
		return "", false
	}

	cookie, err := c.Cookie(s.opts.SessionCookie)
	if err != nil || cookie == nil {
		return "", false
	}

	sessionID := strings.TrimSpace(cookie.Value)
	if sessionID == "" {
		return "", false
	}
	if !isSessionToken(sessionID) {
		s.clearSessionCookie(c)
		return "", false
	}
	return sessionID, true
}

func (s *Server) setSessionCookie(c echo.Context, sessionID string, expiresAt time.Time) {
	if c == nil {
		return
	}

	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}

	c.SetCookie(&http.Cookie{
		Name:     s.opts.SessionCookie,
		Value:    strings.TrimSpace(sessionID),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SessionSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt.UTC(),
		MaxAge:   maxAge,
	})
}

func (s *Server) clearSessionCookie(c echo.Context) {
	if c == nil {
		return
	}

	c.SetCookie(&http.Cookie{
		Name:     s.opts.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SessionSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  globaltime.UTC().Add(-1 * time.Hour),
	})
}

// isSessionToken reports whether value looks like a token minted by
// auth.NewSessionToken: 64 lowercase hex characters.
func isSessionToken(value string) bool {
	if len(value) != 64 {
		return false
	}
	for _, ch := range value {
		switch {
		case ch >= '0' && ch <= '9':
		case ch >= 'a' && ch <= 'f':
		default:
			return false
		}
	}
	return true
}
