package volunteer_unassign_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"dispatch/internal/apperr"
	"dispatch/internal/service/tracking"
	"dispatch/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	return &Handler{
		log:     log.With(logger.NewField("handler", "volunteer_unassign_post")),
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID, volunteerID := vars["id"], vars["volunteerId"]
	if requestID == "" || volunteerID == "" {
		h.writeError(w, http.StatusBadRequest, apperr.New(apperr.LabelBadRequest, "request id and volunteer id are required"))
		return
	}

	request, err := h.service.UnassignVolunteer(r.Context(), requestID, volunteerID)
	if err != nil {
		switch {
		case errors.Is(err, tracking.ErrRequestNotFound):
			h.writeError(w, http.StatusNotFound, apperr.New(apperr.LabelRequestNotFound, "request not found"))
		case errors.Is(err, tracking.ErrVolunteerNotAssigned):
			h.writeError(w, http.StatusNotFound, apperr.New(apperr.LabelVolunteerNotAssigned, "volunteer is not assigned to the request"))
		case errors.Is(err, tracking.ErrRequestAlreadyClosed):
			h.writeError(w, http.StatusConflict, apperr.New(apperr.LabelRequestAlreadyClosed, "request is already closed"))
		default:
			h.log.Error("unassign volunteer failed",
				logger.NewField("request_id", requestID),
				logger.NewField("volunteer_id", volunteerID),
				logger.NewField("error", err),
			)
			h.writeError(w, http.StatusInternalServerError, apperr.New(apperr.LabelInternal, "internal error"))
		}
		return
	}

	volunteers := request.Volunteers
	if volunteers == nil {
		volunteers = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(response{
		RequestID:  request.ID,
		Status:     request.Status.String(),
		Volunteers: volunteers,
	})
	if err != nil {
		h.log.Error("encode JSON response", logger.NewField("error", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, e *apperr.Error) {
	if err := apperr.Write(w, status, e); err != nil {
		h.log.Error("encode JSON response", logger.NewField("error", err))
	}
}
