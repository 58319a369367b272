package router

import (
	"database/sql"
	"net/http"
	"time"

	_ "medremind/docs"
	mem "medremind/internal/adapters/storage/memory"
	pg "medremind/internal/adapters/storage/postgres"
	"medremind/internal/domain/dosehistory"
	"medremind/internal/domain/medications"
	"medremind/internal/domain/tracking"
	"medremind/internal/middleware"
	"medremind/internal/platform/logger"
	"medremind/internal/platform/metrics"
	"medremind/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger  logger.Logger     // nil = sin logs
	Metrics *metrics.Registry // nil = registro propio

	// Location define el "hoy" de todas las vistas; nil = UTC.
	Location *time.Location
	// Now reemplaza el reloj (tests).
	Now func() time.Time

	RateLimitRPS   float64 // 0 = sin límite
	RateLimitBurst int
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	reg := opts.Metrics
	if reg == nil {
		reg = metrics.New()
	}
	now := clock(opts)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))
	r.Use(middleware.Metrics(reg))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", reg.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var (
		medRepo  medications.Repository
		doseRepo dosehistory.Repository
	)
	if opts.DB != nil {
		medRepo = pg.NewMedicationsRepo(opts.DB)
		doseRepo = pg.NewDoseHistoryRepo(opts.DB)
	} else {
		medRepo = mem.NewMedicationRepo()
		doseRepo = mem.NewDoseHistoryRepo()
	}

	// Services por módulo
	medsSvc := medications.NewService(medRepo, doseRepo).WithClock(now)
	dosesSvc := dosehistory.NewService(doseRepo, medsSvc).WithClock(now).WithObserver(reg)
	trackingSvc := tracking.NewService(medsSvc, dosesSvc).WithClock(now)

	// Rutas de la API: requieren usuario
	r.Group(func(api chi.Router) {
		api.Use(middleware.AuthContext(opts.AuthVerifier))
		api.Use(middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))

		medications.RegisterRoutes(api, medsSvc)
		dosehistory.RegisterRoutes(api, dosesSvc)
		tracking.RegisterRoutes(api, trackingSvc)
	})

	return r
}

// clock devuelve el reloj en la zona configurada.
func clock(opts Options) func() time.Time {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	base := opts.Now
	if base == nil {
		base = time.Now
	}
	return func() time.Time { return base().In(loc) }
}
