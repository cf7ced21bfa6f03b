package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kmarzh/scrim-scoreboard/handlers"
	"github.com/kmarzh/scrim-scoreboard/middleware"
	"github.com/kmarzh/scrim-scoreboard/models"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
	submissionHandler *handlers.SubmissionHandler,
	adjustmentHandler *handlers.AdjustmentHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	evidenceHandler *handlers.EvidenceHandler,
	auditHandler *handlers.AuditHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))
	staffOnly := middleware.Authorize(models.RoleAdmin, models.RoleManager)
	adminOnly := middleware.Authorize(models.RoleAdmin)
	teamOnly := middleware.Authorize(models.RoleTeam)

	router.Post("/auth/staff/login", authHandler.StaffLoginHandler)
	router.Post("/auth/team/login", authHandler.TeamLoginHandler)

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)
		r.Post("/managers", authHandler.CreateManagerHandler)
		r.Get("/managers", authHandler.ListManagersHandler)
		r.Get("/audit", auditHandler.ListHandler)
	})

	router.Route("/tournaments", func(r chi.Router) {
		// Public: read-only views for overlays and spectators.
		r.Get("/", tournamentHandler.ListHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetHandler)
		r.Get("/{tournamentID}/teams", teamHandler.ListHandler)
		r.Get("/{tournamentID}/leaderboard", leaderboardHandler.GetHandler)
		r.Get("/{tournamentID}/ws", webSocketHandler.ServeWSHandler)

		// Admin lifecycle operations.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)
			r.Post("/", tournamentHandler.CreateHandler)
			r.Put("/{tournamentID}", tournamentHandler.UpdateHandler)
			r.Post("/{tournamentID}/managers", tournamentHandler.AssignManagerHandler)
			r.Delete("/{tournamentID}/managers/{managerID}", tournamentHandler.UnassignManagerHandler)
			r.Post("/{tournamentID}/complete", tournamentHandler.CompleteHandler)
			r.Post("/{tournamentID}/archive", tournamentHandler.ArchiveHandler)
			r.Post("/{tournamentID}/teams", teamHandler.RegisterHandler)
			r.Put("/teams/{teamID}", teamHandler.RenameHandler)
			r.Delete("/teams/{teamID}", teamHandler.DeleteHandler)
		})

		// Staff review workflow.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)
			r.Get("/{tournamentID}/submissions", submissionHandler.ListPendingHandler)
			r.Post("/submissions/{submissionID}/approve", submissionHandler.ApproveHandler)
			r.Post("/submissions/{submissionID}/reject", submissionHandler.RejectHandler)
			r.Post("/{tournamentID}/slots", submissionHandler.AssignSlotHandler)
			r.Post("/{tournamentID}/adjustments", adjustmentHandler.ApplyHandler)
			r.Get("/{tournamentID}/adjustments", adjustmentHandler.ListHandler)
		})

		// Team-facing operations.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(teamOnly)
			r.Post("/{tournamentID}/submissions", submissionHandler.SubmitHandler)
			r.Post("/{tournamentID}/evidence", evidenceHandler.UploadHandler)
		})
	})
}
