package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/slidecast/slidecast/pkg/httputil"
	"github.com/slidecast/slidecast/pkg/middleware"
	"github.com/slidecast/slidecast/pkg/presentations"
	"github.com/slidecast/slidecast/pkg/store"
)

// PresentationHandlers handles presentation CRUD HTTP requests
type PresentationHandlers struct {
	presentations *presentations.Service
	authmw        *middleware.AuthMiddleware
}

// NewPresentationHandlers creates a new presentation handlers instance
func NewPresentationHandlers(svc *presentations.Service, authmw *middleware.AuthMiddleware) *PresentationHandlers {
	return &PresentationHandlers{presentations: svc, authmw: authmw}
}

// RegisterRoutes registers presentation routes. The public token route
// must be registered before the {id} routes so mux matches it first.
func (h *PresentationHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/presentations/public/{token}", h.public).Methods("GET")

	router.Handle("/api/presentations", h.authmw.Require(http.HandlerFunc(h.list))).Methods("GET")
	router.Handle("/api/presentations", h.authmw.Require(http.HandlerFunc(h.create))).Methods("POST")
	router.Handle("/api/presentations/{id}", h.authmw.Require(http.HandlerFunc(h.get))).Methods("GET")
	router.Handle("/api/presentations/{id}", h.authmw.Require(http.HandlerFunc(h.update))).Methods("PUT")
	router.Handle("/api/presentations/{id}", h.authmw.Require(http.HandlerFunc(h.delete))).Methods("DELETE")
	router.Handle("/api/presentations/{id}/duplicate", h.authmw.Require(http.HandlerFunc(h.duplicate))).Methods("POST")
}

func actorFrom(r *http.Request) presentations.Actor {
	claims := middleware.GetClaims(r)
	return presentations.Actor{UserID: claims.UserID, Role: claims.Role}
}

// list handles GET /api/presentations
func (h *PresentationHandlers) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.presentations.List()
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, items)
}

// get handles GET /api/presentations/{id}
func (h *PresentationHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}

	presentation, err := h.presentations.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteNotFound(w, "presentation not found")
			return
		}
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, presentation)
}

// create handles POST /api/presentations
func (h *PresentationHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req presentations.CreateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	actor := actorFrom(r)
	presentation, err := h.presentations.Create(actor.UserID, req)
	if err != nil {
		if errors.Is(err, presentations.ErrMissingTitle) {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteCreated(w, presentation)
}

// update handles PUT /api/presentations/{id}
func (h *PresentationHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req presentations.UpdateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	presentation, err := h.presentations.Update(id, actorFrom(r), req)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	httputil.WriteSuccess(w, presentation)
}

// delete handles DELETE /api/presentations/{id}
func (h *PresentationHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.presentations.Delete(id, actorFrom(r)); err != nil {
		h.writeMutationError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]string{"message": "presentation deleted"})
}

// duplicate handles POST /api/presentations/{id}/duplicate
func (h *PresentationHandlers) duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}

	presentation, err := h.presentations.Duplicate(id, actorFrom(r))
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	httputil.WriteCreated(w, presentation)
}

// public handles GET /api/presentations/public/{token}, the anonymous
// viewer entry point. No authentication; the token itself is the grant.
func (h *PresentationHandlers) public(w http.ResponseWriter, r *http.Request) {
	token, ok := httputil.PathStringOrError(w, r, "token")
	if !ok {
		return
	}

	view, err := h.presentations.Public(token)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			httputil.WriteNotFound(w, "presentation not found")
		case errors.Is(err, presentations.ErrNotPublished):
			httputil.WriteForbidden(w, err.Error())
		default:
			httputil.WriteInternalError(w, err)
		}
		return
	}
	httputil.WriteSuccess(w, view)
}

func (h *PresentationHandlers) writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httputil.WriteNotFound(w, "presentation not found")
	case errors.Is(err, presentations.ErrForbidden):
		httputil.WriteForbidden(w, err.Error())
	case errors.Is(err, presentations.ErrInvalidStatus),
		errors.Is(err, presentations.ErrMissingTitle):
		httputil.WriteBadRequest(w, err.Error())
	default:
		httputil.WriteInternalError(w, err)
	}
}
