package profile

import (
	"context"
	"net/http"
	"time"

	"voyago/errs"
	"voyago/globals"
	"voyago/mq"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	follows *FollowStore
	users   *Directory
	events  *mq.Emitter
}

func NewHandlers(follows *FollowStore, users *Directory, events *mq.Emitter) *Handlers {
	return &Handlers{follows: follows, users: users, events: events}
}

func requestUserID(r *http.Request) string {
	id, _ := r.Context().Value(globals.UserIDKey).(string)
	return id
}

func (h *Handlers) Follow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.followAction(w, r, ps, "follow")
}

func (h *Handlers) Unfollow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.followAction(w, r, ps, "unfollow")
}

func (h *Handlers) followAction(w http.ResponseWriter, r *http.Request, ps httprouter.Params, action string) {
	userID := requestUserID(r)
	targetID := ps.ByName("id")
	if targetID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "user id is required")
		return
	}
	if targetID == userID {
		utils.RespondWithError(w, http.StatusBadRequest, "cannot follow yourself")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var err error
	if action == "follow" {
		err = h.follows.Follow(ctx, userID, targetID)
	} else {
		err = h.follows.Unfollow(ctx, userID, targetID)
	}
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}

	h.events.Emit(ctx, action+"ed", mq.Index{EntityType: "follow", EntityId: userID, ItemId: targetID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"isFollowing": action == "follow", "ok": true})
}

func (h *Handlers) GetFollowing(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.listRelated(w, r, h.follows.FollowingIDs)
}

func (h *Handlers) GetFollowers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.listRelated(w, r, h.follows.FollowerIDs)
}

func (h *Handlers) listRelated(w http.ResponseWriter, r *http.Request, ids func(context.Context, string) ([]string, error)) {
	userID := requestUserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	related, err := ids(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	users, err := h.users.LookupMany(ctx, related)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

func (h *Handlers) DoesFollow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := requestUserID(r)
	targetID := ps.ByName("id")
	if targetID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "user id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	following, err := h.follows.IsFollowing(ctx, userID, targetID)
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"isFollowing": following})
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.Lookup(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, errs.StatusCode(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}
