package public

import (
	"context"
	"net/http"
	"time"

	"github.com/sngm3741/meshi-wheel/api/internal/interfaces/http/common"
)

const requestTimeout = 10 * time.Second

// readCacheControl allows shared caches to serve catalog reads for a short window.
const readCacheControl = "public, s-maxage=30"

func (h *Handler) restaurantListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		doc, err := h.queries.Catalog(ctx)
		if err != nil {
			h.logger.Printf("カタログの取得に失敗: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Cache-Control", readCacheControl)
		common.WriteJSON(h.logger, w, http.StatusOK, catalogResponse{
			Restaurants: buildRestaurantPayloads(doc.Restaurants),
			Profiles:    buildProfilePayloads(doc.Profiles),
		})
	}
}

func (h *Handler) profileListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		profiles, err := h.queries.Profiles(ctx)
		if err != nil {
			h.logger.Printf("プロフィール一覧の取得に失敗: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Cache-Control", readCacheControl)
		common.WriteJSON(h.logger, w, http.StatusOK, profileListResponse{
			Profiles: buildProfilePayloads(profiles),
		})
	}
}
