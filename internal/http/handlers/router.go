package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/diagnosis/clinicdesk/internal/domain"
	"github.com/diagnosis/clinicdesk/internal/http/middleware"
	"github.com/diagnosis/clinicdesk/internal/service"
	"github.com/diagnosis/clinicdesk/pkg/config"
	mw "github.com/diagnosis/clinicdesk/pkg/middleware"
)

const ServiceName = "clinicdesk"

type RouterDeps struct {
	Config      *config.Config
	Auth        service.AuthService
	Patients    *service.PatientService
	Doctors     *service.DoctorService
	HealthCheck func(ctx context.Context) error
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	if d.Config.Server.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName(ServiceName))
	r.Use(mw.Logging)
	r.Use(mw.Recoverer)
	r.Use(mw.CORS(d.Config.CORS.AllowedOrigins))
	r.Use(mw.Health(d.HealthCheck))

	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		PerMinute: d.Config.RateLimit.AuthPerMinute,
		Burst:     d.Config.RateLimit.AuthBurst,
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware())
			r.Mount("/auth", NewAuthHandler(d.Auth).Routes())
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(d.Auth))
			r.Mount("/pacientes", NewResourceHandler[domain.Patient, domain.PatientInput, domain.PatientPatch](d.Patients).Routes())
			r.Mount("/medicos", NewResourceHandler[domain.Doctor, domain.DoctorInput, domain.DoctorPatch](d.Doctors).Routes())
		})
	})

	return r
}
