package notifications

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"voyago/errs"
	"voyago/globals"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	devices *DeviceStore
	inbox   *InboxStore
	gateway *Gateway
}

func NewHandlers(devices *DeviceStore, inbox *InboxStore, gateway *Gateway) *Handlers {
	return &Handlers{devices: devices, inbox: inbox, gateway: gateway}
}

func requestUserID(r *http.Request) string {
	id, _ := r.Context().Value(globals.UserIDKey).(string)
	return id
}

type tokenRequest struct {
	UserID   string `json:"userId"`
	FcmToken string `json:"fcmToken"`
}

// SaveToken registers or refreshes the caller's device token.
func (h *Handlers) SaveToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	userID := requestUserID(r)
	if userID == "" {
		userID = req.UserID
	}
	if userID == "" || req.FcmToken == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "userId and fcmToken are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.devices.SaveToken(ctx, userID, req.FcmToken); err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

type settingsRequest struct {
	NotificationsEnabled bool `json:"notificationsEnabled"`
}

func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	userID := ps.ByName("userId")
	if userID == "" {
		userID = requestUserID(r)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.devices.SetEnabled(ctx, userID, req.NotificationsEnabled); err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"notificationsEnabled": req.NotificationsEnabled})
}

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("userId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	device, err := h.devices.Get(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"notificationsEnabled": device.NotificationsEnabled})
}

func (h *Handlers) ListInbox(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := requestUserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.inbox.ListByUser(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (h *Handlers) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.inbox.MarkRead(ctx, ps.ByName("id")); err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.inbox.Delete(ctx, ps.ByName("id")); err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

func (h *Handlers) UnreadCount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := requestUserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := h.inbox.UnreadCount(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"unreadCount": count})
}

type sendRequest struct {
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	TripID    string `json:"tripId,omitempty"`
	TripTitle string `json:"tripTitle,omitempty"`
}

// Send delivers a direct notification to one user.
func (h *Handlers) Send(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "userId and title are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := h.gateway.NotifyUser(ctx, Message{
		UserID:    req.UserID,
		Title:     req.Title,
		Body:      req.Message,
		Type:      req.Type,
		TripID:    req.TripID,
		TripTitle: req.TripTitle,
	})
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// Broadcast fans a notification out to every registered device; individual
// failures are logged and skipped.
func (h *Handlers) Broadcast(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "title is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	devices, err := h.devices.ListAll(ctx)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}

	sent := 0
	for _, device := range devices {
		err := h.gateway.NotifyUser(ctx, Message{
			UserID: device.UserID,
			Title:  req.Title,
			Body:   req.Message,
			Type:   req.Type,
		})
		if err != nil {
			log.Printf("broadcast to %s: %v", device.UserID, err)
			continue
		}
		sent++
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "sent": sent})
}
