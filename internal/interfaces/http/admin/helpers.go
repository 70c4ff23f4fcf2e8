package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
	"github.com/sngm3741/meshi-wheel/api/internal/interfaces/http/common"
)

// adminRestaurantToPayload は Restaurant レコードを Admin UI 用レスポンスへ変換する。
func adminRestaurantToPayload(record catalog.Restaurant) adminRestaurantPayload {
	return adminRestaurantPayload{
		ID:                  record.ID,
		Name:                record.Name,
		FoodTypes:           append([]string{}, record.FoodTypes...),
		ServiceTypes:        append([]string{}, record.ServiceTypes...),
		Profiles:            append([]string{}, record.Profiles...),
		DietaryRestrictions: append([]string{}, record.DietaryRestrictions...),
		OrderMethod:         record.OrderMethod,
		MenuLink:            record.MenuLink,
		Address:             record.Address,
		Phone:               record.Phone,
		Notes:               record.Notes,
	}
}

func adminProfileToPayload(profile catalog.Profile) adminProfilePayload {
	return adminProfilePayload{ID: profile.ID, Name: profile.Name}
}

// writeMutationError maps catalog errors onto client-facing responses. Store
// failures keep their text so the operator sees the upstream status and body.
func (h *Handler) writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrRestaurantNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "Restaurant not found")
	case errors.Is(err, catalog.ErrProfileNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "Profile not found")
	case errors.Is(err, catalog.ErrRestaurantExists):
		common.WriteError(h.logger, w, http.StatusBadRequest, "A restaurant with this ID already exists")
	case errors.Is(err, catalog.ErrProfileExists):
		common.WriteError(h.logger, w, http.StatusBadRequest, "A profile with this ID already exists")
	case errors.Is(err, catalog.ErrProfileReserved):
		common.WriteError(h.logger, w, http.StatusBadRequest, `"all" is a reserved profile ID`)
	default:
		h.logger.Printf("カタログの書き込みに失敗: %v", err)
		common.WriteError(h.logger, w, http.StatusInternalServerError, err.Error())
	}
}

// logMutation はどのセッションがどの操作を行ったかを記録する。
func (h *Handler) logMutation(r *http.Request, action, subject string) {
	session, _ := common.SessionFromContext(r.Context())
	if session == "" {
		session = "-"
	}
	h.logger.Printf("%s subject=%s session=%s", action, subject, session)
}

// decodeStringList reports how a raw JSON field arrived: absent or null
// (present=false), a string array (ok=true), or anything else (ok=false).
func decodeStringList(raw json.RawMessage) (values []string, present, ok bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false, true
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, true, false
	}
	return values, true, true
}
