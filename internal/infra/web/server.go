package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"elearn-order-service/internal/infra/logging"
	"elearn-order-service/internal/usecase"
)

type Server struct {
	orderUC  usecase.OrderUseCase
	courseUC usecase.CourseUseCase
	userUC   usecase.UserUseCase
	auth     *AuthManager
	log      *zerolog.Logger
}

func NewServer(
	orderUC usecase.OrderUseCase,
	courseUC usecase.CourseUseCase,
	userUC usecase.UserUseCase,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		orderUC:  orderUC,
		courseUC: courseUC,
		userUC:   userUC,
		auth:     auth,
		log:      logger,
	}
}

// Router builds the full HTTP surface. Gateway callback routes are public:
// they are reached by a browser redirect from the gateway and carry no token.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogContext)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/esewa/success", s.handleGatewaySuccess)
			r.Get("/esewa/failure", s.handleGatewayFailure)
			r.Get("/payment-url/{orderID}", s.handlePaymentURL)
			r.Get("/{orderID}", s.handleGetOrder)

			r.Group(func(r chi.Router) {
				r.Use(s.auth.Middleware)
				r.Post("/", s.handleCreateOrder)
			})
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", s.handleListCourses)
			r.Get("/{courseID}", s.handleGetCourse)

			r.Group(func(r chi.Router) {
				r.Use(s.auth.Middleware)
				r.Post("/", s.handleCreateCourse)
				r.Delete("/{courseID}", s.handleDeleteCourse)
				r.Post("/{courseID}/video", s.handleUploadVideo)
				r.Post("/{courseID}/thumbnail", s.handleUploadThumbnail)
			})
		})
	})

	return r
}

// requestLogContext seeds the request context with the request id so every
// logger derived via logging.With carries it.
func requestLogContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			ctx = logging.WithRequestID(ctx, reqID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
