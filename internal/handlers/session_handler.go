package handlers

import (
	"net/http"

	"flowAdsBack/internal/auth"
	"flowAdsBack/internal/fleet"
)

type SessionHandler struct {
	Tokens *auth.Manager
	Users  *fleet.Service
}

type sessionResponse struct {
	Token string   `json:"token"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  string   `json:"role"`
	Pages []string `json:"pages_access"`
}

type demoLoginRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *SessionHandler) DemoLogin(w http.ResponseWriter, r *http.Request) {
	var req demoLoginRequest
	if !decodeValid(w, r, &req) {
		return
	}
	token, claims, err := h.Tokens.Demo(req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, Name: claims.Name, Email: claims.Email, Role: claims.Role, Pages: claims.Pages})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeValid(w, r, &req) {
		return
	}
	u, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, claims, err := h.Tokens.ForUser(u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, Name: claims.Name, Email: claims.Email, Role: claims.Role, Pages: claims.Pages})
}

// GetSession echoes the role label attached to the request.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Not logged in", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Name: claims.Name, Email: claims.Email, Role: claims.Role, Pages: claims.Pages})
}
