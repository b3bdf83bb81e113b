package trips

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"voyago/errs"
	"voyago/models"
	"voyago/plans"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
)

// planRequest is the flat client payload for typed plan creation and update.
// Date-times come in as zoneless strings matching the stored layout.
type planRequest struct {
	Title     string   `json:"title"`
	Address   string   `json:"address"`
	Location  string   `json:"location"`
	StartTime string   `json:"startTime"`
	Expense   *float64 `json:"expense"`
	PhotoURL  string   `json:"photoUrl"`
	Photos    []string `json:"photos"`

	ArrivalLocation string `json:"arrivalLocation"`
	ArrivalAddress  string `json:"arrivalAddress"`
	ArrivalDate     string `json:"arrivalDate"`
	ArrivalTime     string `json:"arrivalTime"`
	ReservationDate string `json:"reservationDate"`
	ReservationTime string `json:"reservationTime"`
	CheckInDate     string `json:"checkInDate"`
	CheckOutDate    string `json:"checkOutDate"`
	EndTime         string `json:"endTime"`
	PickupDate      string `json:"pickupDate"`
	PickupTime      string `json:"pickupTime"`
	Phone           string `json:"phone"`
}

func parseClientTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(plans.TimeLayout, s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}

func (req planRequest) toPlan(tripID string, t models.PlanType) models.Plan {
	p := models.Plan{
		TripID:    tripID,
		Title:     req.Title,
		Address:   req.Address,
		Location:  req.Location,
		StartTime: parseClientTime(req.StartTime),
		Expense:   req.Expense,
		PhotoURL:  req.PhotoURL,
		Photos:    req.Photos,
		Type:      t,
	}

	switch plans.Variant(t) {
	case models.PlanFlight:
		p.Flight = &models.FlightDetails{
			ArrivalLocation: req.ArrivalLocation,
			ArrivalAddress:  req.ArrivalAddress,
			ArrivalDate:     parseClientTime(req.ArrivalDate),
		}
	case models.PlanRestaurant:
		p.Restaurant = &models.RestaurantDetails{
			ReservationDate: parseClientTime(req.ReservationDate),
			ReservationTime: parseClientTime(req.ReservationTime),
		}
	case models.PlanLodging:
		p.Lodging = &models.LodgingDetails{
			CheckInDate:  parseClientTime(req.CheckInDate),
			CheckOutDate: parseClientTime(req.CheckOutDate),
			Phone:        req.Phone,
		}
	case models.PlanActivity:
		p.Activity = &models.ActivityDetails{
			EndTime: parseClientTime(req.EndTime),
		}
	case models.PlanBoat:
		p.Boat = &models.BoatDetails{
			ArrivalTime:     parseClientTime(req.ArrivalTime),
			ArrivalLocation: req.ArrivalLocation,
			ArrivalAddress:  req.ArrivalAddress,
		}
	case models.PlanCarRental:
		p.CarRental = &models.CarRentalDetails{
			PickupDate: parseClientTime(req.PickupDate),
			PickupTime: parseClientTime(req.PickupTime),
			Phone:      req.Phone,
		}
	}
	return p
}

// planTypeFromSegment maps a path segment like "car-rental" onto the stored
// discriminator.
func planTypeFromSegment(seg string) (models.PlanType, bool) {
	t := models.PlanType(strings.ToUpper(strings.ReplaceAll(seg, "-", "_")))
	switch t {
	case models.PlanFlight, models.PlanRestaurant, models.PlanLodging,
		models.PlanActivity, models.PlanTour, models.PlanTheater,
		models.PlanShopping, models.PlanCamping, models.PlanReligion,
		models.PlanBoat, models.PlanCarRental, models.PlanTrain:
		return t, true
	}
	return "", false
}

// CreatePlan handles typed creation: the path segment names the plan type.
func (h *Handlers) CreatePlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	planType, ok := planTypeFromSegment(ps.ByName("planType"))
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "unknown plan type "+ps.ByName("planType"))
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "title is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	saved, err := h.svc.CreatePlan(ctx, requestUserID(r), req.toPlan(ps.ByName("tripId"), planType))
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, saved)
}

func (h *Handlers) GetPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	plan, err := h.svc.GetPlan(ctx, ps.ByName("planId"))
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, plan)
}

func (h *Handlers) GetTripPlans(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.GetPlansByTrip(ctx, ps.ByName("tripId"))
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// UpdatePlan keeps the stored plan's type; the body carries new field values.
func (h *Handlers) UpdatePlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	planID := ps.ByName("planId")
	existing, err := h.svc.GetPlan(ctx, planID)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}

	saved, err := h.svc.UpdatePlan(ctx, requestUserID(r), planID, req.toPlan(existing.TripID, existing.Type))
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, saved)
}

func (h *Handlers) DeletePlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.DeletePlan(ctx, requestUserID(r), ps.ByName("planId")); err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
