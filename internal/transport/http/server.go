package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	appsvc "mesto-api/internal/app"
	"mesto-api/internal/bootstrap"
	"mesto-api/internal/cache"
	"mesto-api/internal/logging"
	"mesto-api/internal/pkg/hashutil"
	"mesto-api/internal/pkg/jwtutil"
	"mesto-api/internal/repository"
	"mesto-api/internal/transport/http/handler"
	"mesto-api/internal/transport/http/middleware"
)

// NewHandler is the full HTTP stack: the router behind the CORS allow-list.
func NewHandler(app *bootstrap.App) (http.Handler, error) {
	router, err := NewRouter(app)
	if err != nil {
		return nil, err
	}
	c := cors.New(cors.Options{
		AllowedOrigins: app.Config.CORS.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	return c.Handler(router), nil
}

func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	if err := handler.RegisterValidations(); err != nil {
		return nil, err
	}
	logger := app.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.ErrorHandler(logger),
		middleware.Recovery(),
	)
	router.NoRoute(middleware.NoRoute())

	var (
		cardCache appsvc.CardListCache
		publisher appsvc.EventPublisher
	)
	if app.Redis != nil {
		cardCache = cache.NewCardCache(app.Redis, app.Config.CardsTTL())
		if app.Config.RateLimit.Enabled {
			router.Use(middleware.RateLimit(
				cache.NewRateCounter(app.Redis),
				app.Config.RateLimitWindow(),
				app.Config.RateLimit.MaxRequests,
				logger,
			))
		}
	}
	if app.Publisher != nil {
		publisher = app.Publisher
	}

	userRepo := repository.NewUserRepository(app.DB)
	cardRepo := repository.NewCardRepository(app.DB)
	activityRepo := repository.NewActivityRepository(app.DB)
	codec := jwtutil.NewCodec(app.Config.Auth.JWTSecret, app.Config.TokenTTL())

	userService := appsvc.NewUserService(userRepo, hashutil.NewHasher(app.Config.Auth.BcryptCost), codec, publisher, logger)
	cardService := appsvc.NewCardService(cardRepo, userRepo, cardCache, publisher, logger)
	activityService := appsvc.NewActivityService(activityRepo)

	healthHandler := handler.NewHealthHandler(app)
	authHandler := handler.NewAuthHandler(userService)
	userHandler := handler.NewUserHandler(userService)
	cardHandler := handler.NewCardHandler(cardService)
	activityHandler := handler.NewActivityHandler(activityService)

	router.GET("/healthz", healthHandler.Check)
	if app.Config.App.EnableCrashTest {
		router.GET("/crash-test", func(*gin.Context) {
			panic("Server will crash now")
		})
	}

	router.POST("/signup", authHandler.Signup)
	router.POST("/signin", authHandler.Signin)

	protected := router.Group("/")
	protected.Use(middleware.AuthJWT(codec))

	users := protected.Group("/users")
	users.GET("", userHandler.List)
	users.GET("/me", userHandler.Me)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.PATCH("/me/avatar", userHandler.UpdateAvatar)
	users.GET("/me/activity", activityHandler.Mine)
	users.GET("/:userId", userHandler.Get)

	cards := protected.Group("/cards")
	cards.GET("", cardHandler.List)
	cards.POST("", cardHandler.Create)
	cards.DELETE("/:cardId", cardHandler.Delete)
	cards.PUT("/:cardId/likes", cardHandler.Like)
	cards.DELETE("/:cardId/likes", cardHandler.Dislike)

	return router, nil
}
