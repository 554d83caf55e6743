// Package httpserver exposes the campus events REST API over gin.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/campusevents/internal/logging"
	"github.com/dmitrijs2005/campusevents/internal/server/auth"
	"github.com/dmitrijs2005/campusevents/internal/server/models"
	"github.com/dmitrijs2005/campusevents/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type EventService interface {
	List(ctx context.Context, filter models.EventFilter) (*models.EventPage, error)
	Search(ctx context.Context, q string, page, limit int) (*models.EventPage, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, in models.EventInput) (*models.Event, error)
	Update(ctx context.Context, id string, in models.EventInput) (*models.Event, error)
	Delete(ctx context.Context, id string) (*models.Event, error)
}

type RegistrationService interface {
	Register(ctx context.Context, eventID, userID string) (*models.Registration, bool, error)
	CancelForUser(ctx context.Context, eventID, userID string) (*models.Registration, error)
	CancelByID(ctx context.Context, eventID, regID string, requester auth.Identity) (*models.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]*models.EventRegistration, error)
	ListByUser(ctx context.Context, userID string) ([]*models.UserRegistration, error)
	ListForUser(ctx context.Context, requester auth.Identity, userID string) ([]*models.UserRegistration, error)
}

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options carries the transport settings of the server.
type Options struct {
	Address          string
	CORSAllowOrigins []string
	ShutdownTimeout  time.Duration
}

type HTTPServer struct {
	opts          Options
	logger        logging.Logger
	users         UserService
	events        EventService
	registrations RegistrationService
	db            Pinger
}

func NewHTTPServer(opts Options, l logging.Logger, us UserService, es EventService, rs RegistrationService, db Pinger) *HTTPServer {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &HTTPServer{
		opts:          opts,
		logger:        l.With("module", "http_server"),
		users:         us,
		events:        es,
		registrations: rs,
		db:            db,
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Handler builds the gin engine with every route and middleware attached.
func (s *HTTPServer) Handler() http.Handler {
	r := gin.New()

	r.Use(cors.New(corsConfig(s.opts.CORSAllowOrigins)))
	r.Use(s.requestLogger())
	r.Use(gin.CustomRecovery(s.recoverPanic))
	r.Use(s.errorHandler())

	r.GET("/", s.root)
	r.GET("/healthz", s.health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)

	ev := api.Group("/events")
	ev.GET("", s.listEvents)
	ev.GET("/search", s.searchEvents)
	ev.GET("/:id", s.getEvent)
	ev.POST("", s.authRequired(), s.requireAdmin("create"), s.createEvent)
	ev.PUT("/:id", s.authRequired(), s.requireAdmin("update"), s.updateEvent)
	ev.DELETE("/:id", s.authRequired(), s.requireAdmin("delete"), s.deleteEvent)

	ev.POST("/:id/register", s.authRequired(), s.registerForEvent)
	ev.GET("/:id/registrations", s.eventRegistrations)
	ev.DELETE("/:id/registrations", s.authRequired(), s.cancelOwnRegistration)
	ev.DELETE("/:id/registrations/:regId", s.authRequired(), s.cancelRegistrationByID)

	regs := api.Group("/registrations", s.authRequired())
	regs.GET("/me", s.myRegistrations)
	regs.GET("/user/:userId", s.userRegistrations)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody("Not Found"))
	})

	return r
}

// listen is a test seam for net.Listen.
var listen = net.Listen

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the configured shutdown timeout. When serving fails Run stops its
// shutdown goroutine before returning the error.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	l, err := listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", l.Addr().String())

	serveErr := srv.Serve(l)
	if errors.Is(serveErr, http.ErrServerClosed) {
		serveErr = nil
	}

	cancel()
	<-stopped
	return serveErr
}
