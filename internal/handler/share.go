package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
	"github.com/BuzzLyutic/taskshare-api/internal/service"
	"github.com/BuzzLyutic/taskshare-api/pkg/respond"
)

// ResolutionRecorder counts resolved share requests by outcome.
type ResolutionRecorder interface {
	ShareResolved(status string)
}

type ShareHandler struct {
	base
	service  *service.ShareService
	recorder ResolutionRecorder
}

func NewShareHandler(srv *service.ShareService, recorder ResolutionRecorder, logger *zap.Logger) *ShareHandler {
	return &ShareHandler{base: base{logger: logger}, service: srv, recorder: recorder}
}

func (h *ShareHandler) Share(w http.ResponseWriter, r *http.Request) {
	projectID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req model.ShareInput
	if !h.decode(w, r, &req) {
		return
	}

	sr, err := h.service.Share(r.Context(), caller(r).ID, projectID, req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	h.logger.Info("share request created",
		zap.Int64("request_id", sr.ID),
		zap.Int64("project_id", sr.ProjectID),
		zap.Int64("to_user_id", sr.ToUserID),
	)
	respond.JSON(w, r, http.StatusCreated, sr)
}

func (h *ShareHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	requestID, ok := idParam(w, r, "requestId")
	if !ok {
		return
	}

	var req model.ResolveInput
	if !h.decode(w, r, &req) {
		return
	}

	sr, err := h.service.Resolve(r.Context(), caller(r).ID, requestID, req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	h.recorder.ShareResolved(string(sr.Status))
	respond.JSON(w, r, http.StatusOK, sr)
}

func (h *ShareHandler) Pending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.Pending(r.Context(), caller(r).ID)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, requests)
}

func (h *ShareHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	projectID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	userID, ok := idParam(w, r, "userId")
	if !ok {
		return
	}

	if err := h.service.RemoveMember(r.Context(), caller(r).ID, projectID, userID); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.NoContent(w)
}
