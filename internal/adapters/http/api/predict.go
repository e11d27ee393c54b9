package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/heartcheck/internal/adapters/notify"
	"github.com/okian/heartcheck/internal/domain/form"
	"github.com/okian/heartcheck/internal/domain/prediction"
)

const maxPredictBody = 64 << 10

// predictResponse is returned on a successful prediction.
type predictResponse struct {
	Prediction string             `json:"prediction"`
	Outcome    prediction.Outcome `json:"outcome"`
}

// validationResponse lists the rejected fields with their messages.
type validationResponse struct {
	Code   string            `json:"code"`
	Errors map[string]string `json:"errors"`
}

// failureResponse carries the notifications raised by a failed prediction.
type failureResponse struct {
	Code          string           `json:"code"`
	Message       string           `json:"message"`
	Notifications []notify.Message `json:"notifications"`
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps Dependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps Dependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// HandlePredict handles POST /api/predict requests. The body is the form
// record: continuous fields as strings, categorical fields as integers.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var rec form.Record
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPredictBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	holder, err := form.NewHolderFrom(rec)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_option", WrapKind(op, ErrBadRequest, err))
		return
	}

	flash := notify.NewFlash(0)
	sess, err := h.deps.NewSession(flash)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}

	resp, err := sess.Submit(r.Context(), holder)
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		out := make(map[string]string, len(verr.Fields))
		for f, msg := range verr.Fields {
			out[string(f)] = msg
		}
		writeJSON(w, http.StatusBadRequest, validationResponse{Code: "validation_failed", Errors: out})
	case err != nil:
		writeJSON(w, http.StatusBadGateway, failureResponse{
			Code:          "prediction_failed",
			Message:       err.Error(),
			Notifications: flash.Messages(),
		})
	default:
		writeJSON(w, http.StatusOK, predictResponse{Prediction: resp.Prediction, Outcome: resp.Outcome()})
	}
}
