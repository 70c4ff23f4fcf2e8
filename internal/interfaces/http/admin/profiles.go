package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/sngm3741/meshi-wheel/api/internal/admin/application"
	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
	"github.com/sngm3741/meshi-wheel/api/internal/interfaces/http/common"
)

func (h *Handler) profileCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileUpsertRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxMutationRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "Invalid request body")
			return
		}

		cmd, problem := buildProfileCreateCommand(req)
		if problem != "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, problem)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), mutationTimeout)
		defer cancel()

		profile, err := h.profiles.Create(ctx, cmd)
		if err != nil {
			h.writeMutationError(w, err)
			return
		}

		h.logMutation(r, "プロフィールを追加", profile.ID)
		common.WriteJSON(h.logger, w, http.StatusOK, profileMutationResponse{
			Success: true,
			Profile: adminProfileToPayload(profile),
		})
	}
}

func (h *Handler) profileUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileUpsertRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxMutationRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "Invalid request body")
			return
		}

		cmd, problem := buildProfileUpdateCommand(req)
		if problem != "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, problem)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), mutationTimeout)
		defer cancel()

		profile, err := h.profiles.Update(ctx, cmd)
		if err != nil {
			h.writeMutationError(w, err)
			return
		}

		h.logMutation(r, "プロフィールを更新", profile.ID)
		common.WriteJSON(h.logger, w, http.StatusOK, profileMutationResponse{
			Success: true,
			Profile: adminProfileToPayload(profile),
		})
	}
}

func (h *Handler) profileDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == catalog.ReservedProfileID {
			common.WriteError(h.logger, w, http.StatusBadRequest, `"all" is a reserved profile ID`)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), mutationTimeout)
		defer cancel()

		removed, err := h.profiles.Delete(ctx, id)
		if err != nil {
			h.writeMutationError(w, err)
			return
		}

		h.logMutation(r, "プロフィールを削除", removed.ID)
		common.WriteJSON(h.logger, w, http.StatusOK, profileDeleteResponse{
			Success: true,
			Deleted: adminProfileToPayload(removed),
		})
	}
}

// buildProfileCreateCommand validates a new profile. Creation enforces the id
// format.
func buildProfileCreateCommand(req profileUpsertRequest) (adminapp.ProfileCommand, string) {
	id := strings.TrimSpace(req.ID)
	name := strings.TrimSpace(req.Name)
	if id == "" || name == "" {
		return adminapp.ProfileCommand{}, "Profile ID and name are required"
	}
	if !catalog.IsValidProfileID(id) {
		return adminapp.ProfileCommand{}, "Profile ID must contain only lowercase letters, numbers, and hyphens"
	}
	if id == catalog.ReservedProfileID {
		return adminapp.ProfileCommand{}, `"all" is a reserved profile ID`
	}
	return adminapp.ProfileCommand{ID: id, Name: name}, ""
}

// buildProfileUpdateCommand validates a rename. The id only locates the
// record, so its format is not re-checked and legacy ids stay renameable.
func buildProfileUpdateCommand(req profileUpsertRequest) (adminapp.ProfileCommand, string) {
	id := strings.TrimSpace(req.ID)
	name := strings.TrimSpace(req.Name)
	if id == "" || name == "" {
		return adminapp.ProfileCommand{}, "Profile ID and name are required"
	}
	if id == catalog.ReservedProfileID {
		return adminapp.ProfileCommand{}, `"all" is a reserved profile ID`
	}
	return adminapp.ProfileCommand{ID: id, Name: name}, ""
}
