package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// Options configures the middleware chain around the API handlers.
type Options struct {
	JWTSecret       string
	AllowedOrigins  []string
	DefaultLocale   string
	RateLimitPerMin int
	CountryLookup   middleware.CountryLookup
	Logger          func(stdhttp.Handler) stdhttp.Handler
}

// NewRouter wires every API route. All routes except the health check require
// an authenticated caller identity.
func NewRouter(app *handlers.App, opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.I18N(opts.DefaultLocale, opts.CountryLookup))
	if opts.Logger != nil {
		r.Use(opts.Logger)
	}
	r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	r.Get("/v1/healthz", app.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthIdentity(opts.JWTSecret))

		r.Post("/v1/benefactor-requests", app.BenefactorRequestCreate)

		r.Route("/v1/users/{identity}", func(r chi.Router) {
			r.Get("/status", app.UserStatus)
			r.Get("/benefactor-request", app.UserBenefactorRequest)
		})

		r.Route("/v1/admin", func(r chi.Router) {
			r.Post("/users/{identity}/block", app.AdminBlockUser)
			r.Post("/users/{identity}/unblock", app.AdminUnblockUser)
			r.Get("/benefactor-requests", app.AdminPendingRequests)
			r.Post("/benefactor-requests/promote", app.AdminPromoteRequest)
			r.Post("/benefactor-requests/decline", app.AdminDeclineRequest)
			r.Get("/journal", app.AdminJournal)
		})

		r.Route("/v1/fundraisers", func(r chi.Router) {
			r.Post("/", app.FundraisersCreate)
			r.Get("/", app.FundraisersList)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", app.FundraiserGet)
				r.Post("/donations", app.DonationsCreate)
				r.Get("/donations", app.DonationsList)
				r.Post("/comments", app.CommentsCreate)
				r.Get("/comments", app.CommentsList)
				r.Post("/approve", app.FundraiserApprove)
				r.Post("/decline", app.FundraiserDecline)
				r.Post("/withdraw", app.FundraiserWithdraw)
				r.Post("/upvote", app.FundraiserUpvote)
			})
		})
	})

	return r
}
