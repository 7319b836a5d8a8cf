package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/videopipe/gostream/internal/auth"
)

// AuthHandler serves the auth collaborator surface named in the
// external interfaces spec: refreshing an access token from a refresh
// token, and revoking a token on logout. Issuance of the initial token
// pair (login) belongs to the password/credentials flow, out of this
// module's core per spec.md §1.
type AuthHandler struct {
	issuer    *auth.Issuer
	blacklist *auth.Blacklist
	accessTTL time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(issuer *auth.Issuer, blacklist *auth.Blacklist, accessTTL time.Duration) *AuthHandler {
	return &AuthHandler{issuer: issuer, blacklist: blacklist, accessTTL: accessTTL}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Refresh handles POST /auth/refresh: validates the presented refresh
// token (signature, expiry, token_type=refresh, not blacklisted) and
// issues a new access token for the same subject and version.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		Error(w, http.StatusBadRequest, "invalid_request", "refresh_token is required")
		return
	}

	claims, err := h.issuer.Validate(req.RefreshToken, auth.TokenTypeRefresh)
	if err != nil {
		Error(w, http.StatusUnauthorized, "invalid_token", "refresh token is invalid or expired")
		return
	}

	revoked, err := h.blacklist.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "internal_error", "failed to check token revocation")
		return
	}
	if revoked {
		Error(w, http.StatusUnauthorized, "token_revoked", "refresh token has been revoked")
		return
	}

	accessToken, err := h.issuer.Issue(claims.Subject, claims.Version, auth.TokenTypeAccess, h.accessTTL)
	if err != nil {
		Error(w, http.StatusInternalServerError, "internal_error", "failed to issue access token")
		return
	}

	JSON(w, http.StatusOK, refreshResponse{AccessToken: accessToken, ExpiresIn: int64(h.accessTTL.Seconds())})
}

// Logout handles POST /auth/logout: validates the presented access
// token and blacklists its jti until its own expiry. A token with no
// exp claim is rejected by Issuer.Validate before it ever reaches here,
// so Blacklist.Revoke never receives a zero expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		Error(w, http.StatusBadRequest, "invalid_request", "missing bearer token")
		return
	}

	claims, err := h.issuer.Validate(token, auth.TokenTypeAccess)
	if err != nil {
		Error(w, http.StatusUnauthorized, "invalid_token", "access token is invalid or expired")
		return
	}

	if err := h.blacklist.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		if errors.Is(err, auth.ErrMissingExpiry) {
			Error(w, http.StatusBadRequest, "invalid_token", "token has no expiry")
			return
		}
		Error(w, http.StatusInternalServerError, "internal_error", "failed to revoke token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
		return ""
	}
	return h[len(prefix):]
}
