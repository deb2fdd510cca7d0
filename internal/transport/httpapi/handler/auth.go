package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/stellarhub/defihub/internal/platform/user"
	"github.com/stellarhub/defihub/internal/transport/httpapi/middleware"
)

// UserService defines the account operations the auth handler needs.
type UserService interface {
	Register(ctx context.Context, email, password string) (*user.User, error)
	Login(ctx context.Context, email, password string) (*user.User, error)
	LinkWallet(ctx context.Context, id uuid.UUID, address string) (*user.User, error)
}

// TokenIssuer generates session tokens.
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID, email string) (string, error)
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	users  UserService
	tokens TokenIssuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users UserService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// CredentialsRequest is the register and login request body.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the authentication response.
type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	registered, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case user.ErrUserAlreadyExists:
			respondError(w, "user with this email already exists", http.StatusConflict)
		case user.ErrPasswordTooShort:
			respondError(w, "password must be at least 8 characters", http.StatusBadRequest)
		case user.ErrInvalidEmail:
			respondError(w, "invalid email address", http.StatusBadRequest)
		default:
			respondError(w, "failed to register user", http.StatusInternalServerError)
		}
		return
	}

	h.respondWithToken(w, registered, http.StatusCreated)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	authenticated, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if err == user.ErrInvalidPassword {
			respondError(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		respondError(w, "failed to login", http.StatusInternalServerError)
		return
	}

	h.respondWithToken(w, authenticated, http.StatusOK)
}

// LinkWalletRequest is the wallet linking request body.
type LinkWalletRequest struct {
	Address string `json:"address"`
}

// LinkWallet handles POST /auth/wallet (authenticated)
func (h *AuthHandler) LinkWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req LinkWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.users.LinkWallet(r.Context(), userID, req.Address)
	if err != nil {
		switch err {
		case user.ErrInvalidWalletAddress:
			respondError(w, "invalid wallet address", http.StatusBadRequest)
		case user.ErrUserNotFound:
			respondError(w, "user not found", http.StatusNotFound)
		default:
			respondError(w, "failed to link wallet", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, updated, http.StatusOK)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, u *user.User, status int) {
	token, err := h.tokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		respondError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}
	respondJSON(w, AuthResponse{Token: token, User: u}, status)
}
