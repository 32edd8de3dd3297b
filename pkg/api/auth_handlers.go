package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/slidecast/slidecast/pkg/auth"
	"github.com/slidecast/slidecast/pkg/httputil"
	"github.com/slidecast/slidecast/pkg/middleware"
	"github.com/slidecast/slidecast/pkg/store"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	accounts *auth.Service
	authmw   *middleware.AuthMiddleware
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(accounts *auth.Service, authmw *middleware.AuthMiddleware) *AuthHandlers {
	return &AuthHandlers{accounts: accounts, authmw: authmw}
}

// RegisterRoutes registers authentication routes
func (h *AuthHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/register", h.register).Methods("POST")
	router.HandleFunc("/api/auth/login", h.login).Methods("POST")
	router.Handle("/api/auth/profile", h.authmw.Require(http.HandlerFunc(h.profile))).Methods("GET")
	router.Handle("/api/auth/refresh", h.authmw.Require(http.HandlerFunc(h.refresh))).Methods("POST")
}

// register handles POST /api/auth/register
func (h *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	session, err := h.accounts.Register(req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, auth.ErrEmailTaken):
			httputil.WriteConflict(w, err.Error())
		default:
			httputil.WriteInternalError(w, err)
		}
		return
	}

	httputil.WriteCreated(w, session)
}

// login handles POST /api/auth/login
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	session, err := h.accounts.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, auth.ErrInvalidCredentials):
			httputil.WriteUnauthorized(w, err.Error())
		default:
			httputil.WriteInternalError(w, err)
		}
		return
	}

	httputil.WriteSuccess(w, session)
}

// profile handles GET /api/auth/profile
func (h *AuthHandlers) profile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	profile, err := h.accounts.Profile(claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteNotFound(w, "user not found")
			return
		}
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{"user": profile})
}

// refresh handles POST /api/auth/refresh
func (h *AuthHandlers) refresh(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	session, err := h.accounts.Refresh(claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteNotFound(w, "user not found")
			return
		}
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, session)
}
