package httptransport

import (
	"encoding/json"
	"net/http"

	"tracker-gateway/internal/transport/httpjson"
	dErrors "tracker-gateway/pkg/domain-errors"
)

type loginURLResponse struct {
	URL string `json:"url"`
}

type loginRequest struct {
	Code string `json:"code"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) handleLoginURL(w http.ResponseWriter, _ *http.Request) {
	httpjson.Write(w, http.StatusOK, loginURLResponse{URL: h.auth.LoginURL()})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	if req.Code == "" {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "code is required"))
		return
	}

	tokens, err := h.auth.LoginWithGoogle(r.Context(), req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, tokens)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	if req.RefreshToken == "" {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "refresh_token is required"))
		return
	}

	tokens, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, tokens)
}
