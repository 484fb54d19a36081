package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/isdelr/hrdesk-be/internal/auth"
	"github.com/isdelr/hrdesk-be/internal/models"
	"github.com/isdelr/hrdesk-be/internal/services"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("Failed to encode response")
	}
}

// writeValidationError reports per-field validation failures as 422. Any other
// error from a validator is a broken rule, not bad input, and answers 500.
func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Validation rule failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fieldErrs})
}

// writeError maps service errors to status codes. Anything unrecognised is
// logged and reported as 500 without leaking the cause.
func writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		auth.Unauthorized(w)
	case errors.Is(err, services.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		http.Error(w, "Incorrect username or password", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrPasswordTooLong):
		http.Error(w, "Password is too long", http.StatusBadRequest)
	case errors.Is(err, services.ErrDuplicateUsername):
		http.Error(w, "Username already registered", http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrDepartmentNotFound):
		http.Error(w, "Department does not exist", http.StatusBadRequest)
	case errors.Is(err, services.ErrDepartmentInUse):
		http.Error(w, "Department still has employees", http.StatusConflict)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("user", currentUsername(r)).Msg("Failed to " + action)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// isJSON reports whether the request declares a JSON body. Anything else is
// read as an HTML form, the shape browser clients of the original service post.
func isJSON(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/json"
}

// parseForm reads a urlencoded or multipart body.
func parseForm(w http.ResponseWriter, r *http.Request) (url.Values, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	return r.PostForm, true
}

// formString returns the named field, or nil when the form does not carry it.
func formString(form url.Values, key string) *string {
	if _, ok := form[key]; !ok {
		return nil
	}
	v := form.Get(key)
	return &v
}

// formInt64 returns the named field as an integer, or nil when absent.
func formInt64(form url.Values, key string) (*int64, error) {
	raw := formString(form, key)
	if raw == nil {
		return nil, nil
	}
	n, err := strconv.ParseInt(*raw, 10, 64)
	if err != nil {
		return nil, errors.New("must be an integer")
	}
	return &n, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// idParam parses the {id} URL parameter, answering 404 for anything that is
// not a positive integer.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// pageParams reads skip and limit from the query string.
func pageParams(w http.ResponseWriter, r *http.Request) (models.Page, bool) {
	var page models.Page
	q := r.URL.Query()
	for _, p := range []struct {
		key string
		dst *int
	}{{"skip", &page.Skip}, {"limit", &page.Limit}} {
		raw := q.Get(p.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid "+p.key, http.StatusBadRequest)
			return models.Page{}, false
		}
		*p.dst = n
	}
	return page.Normalize(), true
}

func currentUsername(r *http.Request) string {
	if user, ok := auth.UserFromContext(r.Context()); ok {
		return user.Username
	}
	return ""
}
