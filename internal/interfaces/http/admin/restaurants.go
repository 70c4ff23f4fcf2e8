package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/sngm3741/meshi-wheel/api/internal/admin/application"
	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
	"github.com/sngm3741/meshi-wheel/api/internal/interfaces/http/common"
)

// mutationTimeout covers a fetch plus a compare-and-swap round trip against
// the backing store.
const mutationTimeout = 20 * time.Second

func (h *Handler) restaurantCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req restaurantUpsertRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxMutationRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "Invalid request body")
			return
		}

		cmd, problems := buildRestaurantCommand(req)
		if len(problems) > 0 {
			common.WriteError(h.logger, w, http.StatusBadRequest, strings.Join(problems, ", "))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), mutationTimeout)
		defer cancel()

		record, err := h.restaurants.Create(ctx, cmd)
		if err != nil {
			h.writeMutationError(w, err)
			return
		}

		h.logMutation(r, "レストランを追加", record.ID.String())
		common.WriteJSON(h.logger, w, http.StatusOK, restaurantMutationResponse{
			Success:    true,
			Restaurant: adminRestaurantToPayload(record),
		})
	}
}

func (h *Handler) restaurantUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req restaurantUpsertRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxMutationRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.ID.IsZero() {
			common.WriteError(h.logger, w, http.StatusBadRequest, "Restaurant ID is required")
			return
		}

		cmd, problems := buildRestaurantCommand(req)
		if len(problems) > 0 {
			common.WriteError(h.logger, w, http.StatusBadRequest, strings.Join(problems, ", "))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), mutationTimeout)
		defer cancel()

		record, err := h.restaurants.Update(ctx, cmd)
		if err != nil {
			h.writeMutationError(w, err)
			return
		}

		h.logMutation(r, "レストランを更新", record.ID.String())
		common.WriteJSON(h.logger, w, http.StatusOK, restaurantMutationResponse{
			Success:    true,
			Restaurant: adminRestaurantToPayload(record),
		})
	}
}

func (h *Handler) restaurantDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "Restaurant ID is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), mutationTimeout)
		defer cancel()

		removed, err := h.restaurants.Delete(ctx, id)
		if err != nil {
			h.writeMutationError(w, err)
			return
		}

		h.logMutation(r, "レストランを削除", removed.ID.String())
		common.WriteJSON(h.logger, w, http.StatusOK, restaurantDeleteResponse{
			Success: true,
			Deleted: adminRestaurantToPayload(removed),
		})
	}
}

// buildRestaurantCommand decodes the raw list fields and runs the accumulated
// validation. The returned problems are client-facing strings, joined by the
// caller into a single message.
func buildRestaurantCommand(req restaurantUpsertRequest) (adminapp.UpsertRestaurantCommand, []string) {
	foodTypes, _, foodOK := decodeStringList(req.FoodTypes)
	if !foodOK {
		foodTypes = nil
	}
	serviceTypes, _, serviceOK := decodeStringList(req.ServiceTypes)
	if !serviceOK {
		serviceTypes = nil
	}
	profiles, profilesPresent, profilesOK := decodeStringList(req.Profiles)
	diets, dietsPresent, dietsOK := decodeStringList(req.DietaryRestrictions)

	problems := catalog.ValidateRestaurantData(catalog.RestaurantInput{
		Name:                       req.Name,
		FoodTypes:                  foodTypes,
		ServiceTypes:               serviceTypes,
		MenuLink:                   req.MenuLink,
		ProfilesInvalid:            profilesPresent && !profilesOK,
		DietaryRestrictionsInvalid: dietsPresent && !dietsOK,
	})
	if len(problems) > 0 {
		return adminapp.UpsertRestaurantCommand{}, problems
	}

	return adminapp.UpsertRestaurantCommand{
		ID:                  req.ID,
		Name:                strings.TrimSpace(req.Name),
		FoodTypes:           foodTypes,
		ServiceTypes:        serviceTypes,
		Profiles:            profiles,
		DietaryRestrictions: diets,
		OrderMethod:         strings.TrimSpace(req.OrderMethod),
		MenuLink:            strings.TrimSpace(req.MenuLink),
		Address:             strings.TrimSpace(req.Address),
		Phone:               strings.TrimSpace(req.Phone),
		Notes:               strings.TrimSpace(req.Notes),
	}, nil
}
