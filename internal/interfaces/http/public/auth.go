package public

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sngm3741/meshi-wheel/api/internal/auth"
	"github.com/sngm3741/meshi-wheel/api/internal/interfaces/http/common"
)

// authHandler exchanges the shared admin password for a session token.
func (h *Handler) authHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxAuthRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, authErrorResponse{Error: "Invalid request body"})
			return
		}

		if !h.passwordMatches(req.Password) {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, authErrorResponse{Error: "Invalid password"})
			return
		}

		token, err := h.tokens.Issue()
		if err != nil {
			if errors.Is(err, auth.ErrNotConfigured) {
				h.logger.Printf("署名シークレット未設定のためトークンを発行できません")
				common.WriteJSON(h.logger, w, http.StatusInternalServerError, authErrorResponse{Error: "JWT_SECRET is not configured"})
				return
			}
			h.logger.Printf("トークン発行に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, authErrorResponse{Error: "Failed to issue token"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, authSuccessResponse{Authenticated: true, Token: token})
	}
}

// passwordMatches は設定済みパスワードと入力を定数時間で比較する。
// パスワード未設定のデプロイでは全ての入力を拒否する。
func (h *Handler) passwordMatches(input string) bool {
	if h.adminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(input), []byte(h.adminPassword)) == 1
}
