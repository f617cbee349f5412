package handler

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
	"github.com/BuzzLyutic/taskshare-api/internal/service"
	"github.com/BuzzLyutic/taskshare-api/pkg/respond"
)

type ProjectHandler struct {
	base
	service *service.ProjectService
}

func NewProjectHandler(srv *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{base: base{logger: logger}, service: srv}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context(), caller(r).ID)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), caller(r).ID, id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, p)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ProjectInput
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.service.Create(r.Context(), caller(r).ID, req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/projects/%d", p.ID))
	respond.JSON(w, r, http.StatusCreated, p)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req model.ProjectInput
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.service.Update(r.Context(), caller(r).ID, id, req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, p)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), caller(r).ID, id); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.NoContent(w)
}
