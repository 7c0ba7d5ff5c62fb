package http

import (
	"net/http"

	"github.com/estate-leads-api/internal/application/admin"
	"github.com/estate-leads-api/internal/application/auth"
	"github.com/estate-leads-api/internal/application/estate"
	"github.com/estate-leads-api/internal/application/notification"
	"github.com/estate-leads-api/internal/config"
	"github.com/estate-leads-api/internal/transport/http/handler"
	appmiddleware "github.com/estate-leads-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Applied to every endpoint that issues or consumes a verification code.
	codeRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	authSvc := auth.NewService(auth.ServiceDeps{
		CodeStore:    deps.VerificationStore,
		UserRepo:     deps.UserRepo,
		Sender:       deps.Sender,
		JWTProvider:  deps.JWTProvider,
		GenerateCode: deps.GenerateCode,
	})
	adminSvc := admin.NewService(admin.ServiceDeps{UserRepo: deps.UserRepo})
	notifSvc := notification.NewService(notification.ServiceDeps{
		NotificationRepo: deps.NotificationRepo,
		UserRepo:         deps.UserRepo,
	})
	estateSvc := estate.NewService(estate.ServiceDeps{
		RequestRepo:  deps.RequestRepo,
		UserRepo:     deps.UserRepo,
		ViewListener: notifSvc,
	})

	echoCodes := !cfg.IsProduction()
	channel := deps.Sender.Channel()
	authH := handler.NewAuthHandler(authSvc, echoCodes, channel)
	estateH := handler.NewEstateHandler(estateSvc)
	agentH := handler.NewAgentHandler(estateSvc)
	adminH := handler.NewAdminHandler(authSvc, adminSvc, estateSvc, echoCodes, channel)
	notifH := handler.NewNotificationHandler(notifSvc)

	authMw := appmiddleware.Authenticate(authSvc, deps.UserRepo)

	r.Get("/health", handler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(codeRL.Limit).Post("/send-verification", authH.SendVerification)
			r.With(codeRL.Limit).Post("/verify", authH.Verify)
			r.Post("/complete-registration", authH.CompleteRegistration)
			r.With(authMw).Get("/user", authH.CurrentUser)
		})

		r.Route("/estate", func(r chi.Router) {
			r.Get("/requests", estateH.List)
			r.Get("/requests/{id}", estateH.Get)

			r.Group(func(r chi.Router) {
				r.Use(authMw)
				r.Get("/my-requests", estateH.MyRequests)
				r.Post("/requests", estateH.Create)
				r.Patch("/requests/{id}/status", estateH.UpdateStatus)
			})
		})

		r.Route("/agents", func(r chi.Router) {
			r.Use(authMw)
			r.Use(appmiddleware.RequireAgent(deps.UserRepo))
			r.Get("/requests", agentH.ListRequests)
			r.Get("/requests/{id}", agentH.GetRequest)
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(codeRL.Limit).Post("/send-verification", adminH.SendVerification)
			r.With(codeRL.Limit).Post("/auth", adminH.Login)

			r.Group(func(r chi.Router) {
				r.Use(authMw)
				r.Use(appmiddleware.RequireAdmin(authSvc))

				r.Get("/users", adminH.ListUsers)
				r.Get("/agents/pending", adminH.ListPendingAgents)
				r.Post("/agents/{userId}/approve", adminH.ApproveAgent)
				r.Put("/users/{userId}/agent", adminH.SetAgentRole)

				r.Get("/notifications", notifH.ListAll)
				r.Get("/notifications/unread", notifH.ListUnread)
				r.Get("/notifications/unread/count", notifH.UnreadCount)
				r.Put("/notifications/read-all", notifH.MarkAllAsRead)
				r.Put("/notifications/{id}/read", notifH.MarkAsRead)

				r.Delete("/requests/{id}", adminH.DeleteRequest)
			})
		})
	})

	return r
}
