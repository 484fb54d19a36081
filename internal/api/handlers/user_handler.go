package handlers

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/isdelr/hrdesk-be/internal/auth"
	"github.com/isdelr/hrdesk-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles registration, login and the current user's account.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Validate runs the registration rules.
func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.RuneLength(1, 64)),
		validation.Field(&p.Password, validation.Required, validation.Length(1, auth.MaxPasswordBytes)),
		validation.Field(&p.Email, validation.Required, validation.Length(3, 254), is.Email),
	)
}

// LoginPayload carries the credentials of a login attempt.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate runs the login rules.
func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required),
		validation.Field(&p.Password, validation.Required),
	)
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		writeValidationError(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload.Username, payload.Password, payload.Email)
	if err != nil {
		writeError(w, r, err, "register user")
		return
	}

	log.Info().Int64("user_id", user.ID).Str("user", user.Username).Msg("Registered user")
	writeJSON(w, http.StatusCreated, user)
}

// Login exchanges credentials for a bearer token. It accepts an HTML form
// body (the OAuth2 password flow shape) or JSON.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if isJSON(r) {
		if !decodeJSON(w, r, &payload) {
			return
		}
	} else {
		form, ok := parseForm(w, r)
		if !ok {
			return
		}
		payload.Username = form.Get("username")
		payload.Password = form.Get("password")
	}
	if err := payload.Validate(); err != nil {
		writeValidationError(w, r, err)
		return
	}

	token, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, r, err, "log in")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// GetMe returns the authenticated user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.Unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteMe permanently deletes the authenticated user's account. Tokens
// already issued to it stop resolving immediately.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.Unauthorized(w)
		return
	}
	if err := h.service.DeleteUser(r.Context(), user.ID); err != nil {
		writeError(w, r, err, "delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
