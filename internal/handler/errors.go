package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskshare-api/internal/auth"
	"github.com/BuzzLyutic/taskshare-api/internal/model"
	"github.com/BuzzLyutic/taskshare-api/internal/service"
	"github.com/BuzzLyutic/taskshare-api/pkg/respond"
)

// base carries what every resource handler shares: the logger and the
// error-to-status mapping.
type base struct {
	logger *zap.Logger
}

// handleErrors writes the response for a service error. Validation and
// conflict details reach the caller verbatim; authorization and lookup
// failures stay generic; anything else is logged and hidden.
func (b base) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict):
		respond.Error(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		respond.Error(w, r, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrForbidden):
		respond.Error(w, r, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	default:
		b.logger.Error("internal error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}

// decode reads the body into dst, answering 400 itself on failure.
func (b base) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := respond.Decode(r, dst); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// idParam parses a numeric path parameter, answering 400 itself on failure.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, r, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// caller returns the user the auth middleware attached.
func caller(r *http.Request) model.User {
	u, _ := auth.UserFrom(r.Context())
	return u
}
