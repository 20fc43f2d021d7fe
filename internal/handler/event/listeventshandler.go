package event

import (
	"net/http"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/middleware"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

func ListEventsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svcCtx.DB.ListEventsByHost(r.Context(), middleware.GetUserID(r.Context()))
		if err != nil {
			httputil.InternalError(w, "could not list events")
			return
		}
		httputil.OkJSON(w, &types.EventListResponse{Events: events})
	}
}
