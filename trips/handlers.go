package trips

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"voyago/errs"
	"voyago/globals"
	"voyago/models"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

func requestUserID(r *http.Request) string {
	id, _ := r.Context().Value(globals.UserIDKey).(string)
	return id
}

func (h *Handlers) CreateTrip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var trip models.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	trip.ID = ""
	trip.UserID = requestUserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	saved, err := h.svc.CreateTrip(ctx, trip)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, saved)
}

// GetTrip returns the trip with plans when the requester may view it.
func (h *Handlers) GetTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tripID := ps.ByName("tripId")
	userID := requestUserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	allowed, err := h.svc.CheckAccess(ctx, tripID, userID)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	if !allowed {
		utils.RespondWithError(w, http.StatusForbidden, "no access to trip "+tripID)
		return
	}

	trip, err := h.svc.GetTrip(ctx, tripID)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, trip)
}

func (h *Handlers) GetUserTrips(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trips, err := h.svc.GetTripsByUser(ctx, ps.ByName("userId"))
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, trips)
}

// GetMemberTrips returns trips the user belongs to but does not own.
func (h *Handlers) GetMemberTrips(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trips, err := h.svc.GetTripsByMember(ctx, ps.ByName("userId"))
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, trips)
}

func (h *Handlers) UpdateTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var trip models.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	saved, err := h.svc.UpdateTrip(ctx, ps.ByName("tripId"), requestUserID(r), trip)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, saved)
}

func (h *Handlers) DeleteTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.svc.DeleteTrip(ctx, ps.ByName("tripId"), requestUserID(r)); err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var member models.UserSummary
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if member.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "member id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trip, err := h.svc.AddMember(ctx, ps.ByName("tripId"), requestUserID(r), member)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, trip)
}

func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trip, err := h.svc.RemoveMember(ctx, ps.ByName("tripId"), requestUserID(r), ps.ByName("userId"))
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, trip)
}

func (h *Handlers) ReplaceSharedUsers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var users []models.UserSummary
	if err := json.NewDecoder(r.Body).Decode(&users); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trip, err := h.svc.ReplaceSharedUsers(ctx, ps.ByName("tripId"), requestUserID(r), users)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, trip)
}

// CheckAccess probes view access for the authenticated requester; an
// anonymous probe evaluates against public visibility only.
func (h *Handlers) CheckAccess(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestUserID(r)
	if userID == "" {
		var body struct {
			UserID string `json:"userId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			userID = body.UserID
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	allowed, err := h.svc.CheckAccess(ctx, ps.ByName("tripId"), userID)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"hasAccess": allowed})
}

func (h *Handlers) CheckMembership(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	member, err := h.svc.CheckMembership(ctx, ps.ByName("tripId"), ps.ByName("userId"))
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"isMember": member})
}
