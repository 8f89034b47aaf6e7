package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/coopledger/internal/http/benefit"
	"github.com/MrJamesThe3rd/coopledger/internal/http/cooperative"
	"github.com/MrJamesThe3rd/coopledger/internal/http/dividend"
	"github.com/MrJamesThe3rd/coopledger/internal/http/events"
	"github.com/MrJamesThe3rd/coopledger/internal/http/member"
	"github.com/MrJamesThe3rd/coopledger/internal/http/transaction"
)

type Options struct {
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int

	// TrustProxy lets forwarding headers replace RemoteAddr, which also keys
	// the rate limiter.
	TrustProxy bool
}

func New(
	opts Options,
	membersV1 *member.Handler,
	transactionsV1 *transaction.Handler,
	benefitsV1 *benefit.Handler,
	cooperativeV1 *cooperative.Handler,
	dividendsV1 *dividend.Handler,
	eventsV1 *events.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)

	if opts.TrustProxy {
		router.Use(middleware.RealIP)
	}

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(opts.RateLimit, opts.RateBurst))

			r.Route("/members", func(r chi.Router) {
				membersV1.Routes(r)
				transactionsV1.MemberRoutes(r)
				benefitsV1.MemberRoutes(r)
			})

			r.Route("/transactions", transactionsV1.Routes)
			r.Route("/benefits", benefitsV1.Routes)
			r.Route("/cooperative", cooperativeV1.Routes)
			r.Route("/dividends", dividendsV1.Routes)
		})

		r.Handle("/events", eventsV1)
	})

	return router
}
