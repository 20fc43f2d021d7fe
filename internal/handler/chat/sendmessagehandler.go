package chat

import (
	"net/http"

	"github.com/convive/convive/internal/convo"
	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

// SendMessageHandler runs one chat message through the RSVP pipeline.
func SendMessageHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svcCtx.Pipeline == nil {
			httputil.ErrorWithCode(w, http.StatusServiceUnavailable, "chat pipeline not configured")
			return
		}

		var req types.ChatMessageRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		result := svcCtx.Pipeline.Process(r.Context(), convo.Message{
			RoomID: req.RoomID,
			Sender: req.Sender,
			Origin: req.Origin,
			Text:   req.Text,
		})
		if !result.OK() {
			switch result.Err.Kind {
			case convo.KindValidation:
				httputil.Error(w, result.Err)
			default:
				httputil.ErrorWithCode(w, http.StatusBadGateway, result.Err.Error())
			}
			return
		}

		httputil.OkJSON(w, &types.ChatMessageResponse{
			Handled: result.Handled,
			Record:  result.Record,
		})
	}
}
