package routes

import (
	"net/http"

	"voyago/filemgr"
	"voyago/live"
	"voyago/middleware"
	"voyago/notifications"
	"voyago/profile"
	"voyago/ratelim"
	"voyago/trips"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddTripRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *trips.Handlers) {
	router.POST("/api/trips", rl.Limit(middleware.Authenticate(h.CreateTrip)))
	router.GET("/api/trips/:tripId", middleware.OptionalAuth(h.GetTrip))
	router.PUT("/api/trips/:tripId", middleware.Authenticate(h.UpdateTrip))
	router.DELETE("/api/trips/:tripId", middleware.Authenticate(h.DeleteTrip))

	router.GET("/api/users/:userId/trips", middleware.Authenticate(h.GetUserTrips))
	router.GET("/api/users/:userId/member-trips", middleware.Authenticate(h.GetMemberTrips))

	router.POST("/api/trips/:tripId/members", middleware.Authenticate(h.AddMember))
	router.DELETE("/api/trips/:tripId/members/:userId", middleware.Authenticate(h.RemoveMember))
	router.PUT("/api/trips/:tripId/shared-users", middleware.Authenticate(h.ReplaceSharedUsers))
	router.GET("/api/trips/:tripId/members/:userId/check", middleware.Authenticate(h.CheckMembership))
	router.POST("/api/trips/:tripId/check-access", middleware.OptionalAuth(h.CheckAccess))
}

// AddPlanRoutes registers the plan CRUD surface. Plan reads are addressed by
// opaque random ids and are not visibility-gated the way GET /api/trips/:tripId
// is; clients reach plans through the trip read, which does gate.
func AddPlanRoutes(router *httprouter.Router, h *trips.Handlers) {
	router.POST("/api/trips/:tripId/plans/:planType", middleware.Authenticate(h.CreatePlan))
	router.GET("/api/trips/:tripId/plans", middleware.OptionalAuth(h.GetTripPlans))
	router.GET("/api/trips/:tripId/plans/:planId", middleware.OptionalAuth(h.GetPlan))
	router.PUT("/api/trips/:tripId/plans/:planId", middleware.Authenticate(h.UpdatePlan))
	router.DELETE("/api/trips/:tripId/plans/:planId", middleware.Authenticate(h.DeletePlan))
}

func AddProfileRoutes(router *httprouter.Router, h *profile.Handlers) {
	router.GET("/api/profile/user/:id", middleware.Authenticate(h.GetUser))
	router.PUT("/api/follows/:id", middleware.Authenticate(h.Follow))
	router.DELETE("/api/follows/:id", middleware.Authenticate(h.Unfollow))
	router.GET("/api/follows/:id/status", middleware.Authenticate(h.DoesFollow))
	router.GET("/api/following", middleware.Authenticate(h.GetFollowing))
	router.GET("/api/followers", middleware.Authenticate(h.GetFollowers))
}

func AddNotificationRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *notifications.Handlers) {
	router.POST("/api/notifications/device/token", middleware.Authenticate(h.SaveToken))
	router.PUT("/api/notifications/settings/:userId", middleware.Authenticate(h.UpdateSettings))
	router.GET("/api/notifications/settings/:userId", middleware.Authenticate(h.GetSettings))

	router.GET("/api/notifications/inbox", middleware.Authenticate(h.ListInbox))
	router.GET("/api/notifications/inbox/unread-count", middleware.Authenticate(h.UnreadCount))
	router.PUT("/api/notifications/inbox/:id/read", middleware.Authenticate(h.MarkRead))
	router.DELETE("/api/notifications/inbox/:id", middleware.Authenticate(h.Delete))

	router.POST("/api/notifications/send", rl.Limit(middleware.Authenticate(h.Send)))
	router.POST("/api/notifications/broadcast", rl.Limit(middleware.Authenticate(h.Broadcast)))
}

func AddUploadRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *filemgr.Handlers) {
	router.POST("/api/uploads/:kind", rl.Limit(middleware.Authenticate(h.Upload)))
	router.POST("/api/uploads/:kind/batch", rl.Limit(middleware.Authenticate(h.UploadMultiple)))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/ws/notifications", live.WebSocketHandler(hub))
}
