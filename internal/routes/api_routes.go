package routes

import (
	"github.com/go-chi/chi/v5"

	"crown-platform/backend/internal/api"
	"crown-platform/backend/internal/config"
	"crown-platform/backend/internal/metrics"
	"crown-platform/backend/internal/middleware"
	"crown-platform/backend/internal/ws"
)

// RegisterAPIRoutes registers all API v1 routes and handlers.
// This keeps API route registration separate from the main router setup.
func RegisterAPIRoutes(r chi.Router, cfg config.Config, metricsReg *metrics.MetricsRegistry, handlers *api.Handlers, jobsHandler *api.JobsHandler, deps *api.Dependencies, hub *ws.Hub) {

	// API v1 routes
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.MetricsMiddleware(metricsReg))
		v1.Use(middleware.AuthMiddleware(cfg.JWTSecret, deps.Services.Session))

		// Sessions
		v1.Post("/session", handlers.CreateSession())
		v1.Get("/session", handlers.GetSession())
		v1.Post("/session/warning", handlers.MarkSessionWarning())
		v1.Delete("/session", handlers.DeleteSession())

		v1.Get("/user/details", handlers.GetUserDetails())

		// TikTok connection lifecycle
		v1.Get("/tiktok/connection", handlers.GetConnection())
		v1.Post("/tiktok/connection/refresh", handlers.RefreshConnection())
		v1.Delete("/tiktok/connection", handlers.Disconnect())
		v1.Post("/tiktok/auth/initiate", handlers.InitiateAuthFlow())
		v1.Post("/tiktok/auth/{flow_id}/await", handlers.AwaitAuthFlow())
		v1.Post("/tiktok/connect/video-permissions", handlers.ConnectWithVideoPermissions())
		v1.Post("/tiktok/connect/await", handlers.AwaitConnection())
		v1.Put("/tiktok/accounts/primary", handlers.SetPrimaryAccount())
		v1.Delete("/tiktok/accounts/{account_id}", handlers.DeleteAccount())
		v1.Get("/tiktok/videos", handlers.ListVideos())

		// Contests and the join flow
		v1.Get("/contests", handlers.ListContests())
		v1.Get("/contests/{contest_id}", handlers.GetContest())
		v1.Get("/contests/{contest_id}/join", handlers.StartJoin())
		v1.Post("/contests/{contest_id}/submit", handlers.SubmitEntry())
		v1.Get("/contests/{contest_id}/leaderboard", handlers.GetLeaderboard())

		// Media
		v1.Post("/media", handlers.UploadMedia())
		v1.Get("/media", handlers.ListMedia())
		v1.Delete("/media/{media_id}", handlers.DeleteMedia())

		// Event stream
		v1.Get("/events/ws", ws.ServeWs(hub))

		// Staff group (organizers + admins)
		v1.Group(func(staff chi.Router) {
			staff.Use(middleware.IsStaffMiddleware())

			staff.Post("/contests", handlers.CreateContest())
			staff.Post("/contests/{contest_id}/extend", handlers.ExtendContest())
			staff.Get("/contests/{contest_id}/participants", handlers.ListParticipants())

			// Admin-only group
			staff.Group(func(admin chi.Router) {
				admin.Use(middleware.IsAdminMiddleware())

				admin.Put("/contests/{contest_id}/status", handlers.UpdateContestStatus())
				admin.Post("/admin/jobs/contest-lifecycle", jobsHandler.TriggerLifecycle())
			})
		})
	})
}
