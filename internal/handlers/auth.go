package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"sitebuilder/internal/models"
	"sitebuilder/internal/session"
	"sitebuilder/internal/store"
)

// SessionManager creates and destroys cookie sessions; *session.Store
// satisfies it.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Auth groups the unauthenticated account handlers.
type Auth struct {
	users    UserRepository
	sessions SessionManager
}

// NewAuth creates a new Auth handler group.
func NewAuth(users UserRepository, sessions SessionManager) *Auth {
	return &Auth{users: users, sessions: sessions}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and logs it in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	if msg := validateCredentials(in.Email, in.Password); msg != "" {
		writeError(w, http.StatusBadRequest, msg, nil)
		return
	}

	user, err := a.users.Create(in.Email, in.Password)
	if errors.Is(err, store.ErrEmailTaken) {
		writeError(w, http.StatusConflict, "Email already registered", nil)
		return
	}
	if err != nil {
		slog.Error("register user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Error registering user", nil)
		return
	}

	if !a.startSession(w, r, user) {
		return
	}
	slog.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

// Login checks credentials and starts a session.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := a.users.FindByEmail(in.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Error logging in", nil)
		return
	}
	if user == nil || !a.users.CheckPassword(user, in.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	if !a.startSession(w, r, user) {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Logout destroys the current session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to log out", nil)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

func (a *Auth) startSession(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	_, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		slog.Error("session create failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Error starting session", nil)
		return false
	}
	return true
}
