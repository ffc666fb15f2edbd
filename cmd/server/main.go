package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/fastseller/fastseller/internal/auth"
	"github.com/fastseller/fastseller/internal/config"
	"github.com/fastseller/fastseller/internal/events"
	"github.com/fastseller/fastseller/internal/favorites"
	"github.com/fastseller/fastseller/internal/geo"
	"github.com/fastseller/fastseller/internal/httpapi"
	"github.com/fastseller/fastseller/internal/item"
	"github.com/fastseller/fastseller/internal/logging"
	"github.com/fastseller/fastseller/internal/message"
	mware "github.com/fastseller/fastseller/internal/middleware"
	"github.com/fastseller/fastseller/internal/order"
	"github.com/fastseller/fastseller/internal/store"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogFile, cfg.LogLevel)
	defer logger.Sync()

	db, err := store.Open(cfg.DataPath)
	if err != nil {
		logger.Fatal("apertura archivio dati fallita", zap.String("path", cfg.DataPath), zap.Error(err))
	}
	defer db.Close()

	notifier := events.NewBus()
	users := auth.NewDirectory(db)
	sessions := auth.NewSessionStore(db, users, notifier)
	authSvc := auth.NewService(sessions, users, cfg.JWTSecret, cfg.UpstreamURL)
	ledger := auth.NewLedger(users, sessions)

	var items item.Repository
	if cfg.ItemsMode == config.ItemsModeRemote {
		items = item.NewRemoteRepository(cfg.UpstreamURL, sessions.AccessToken)
		logger.Info("repository oggetti in modalità remota", zap.String("upstream", cfg.UpstreamURL))
	} else {
		items = item.NewLocalRepository(db)
		logger.Info("repository oggetti in modalità locale", zap.String("data", cfg.DataPath))
	}

	favs := favorites.NewRegistry(db, notifier)
	orders := order.NewRepository(db)
	checkout := order.NewCheckout(orders, ledger)
	msgs, err := message.NewStore(db)
	if err != nil {
		logger.Fatal("inizializzazione store messaggi fallita", zap.Error(err))
	}
	nominatim := geo.NewNominatim(cfg.NominatimURL, cfg.GeoUserAgent)
	history := geo.NewHistory(db)

	api := httpapi.New(items, authSvc, favs, checkout, orders, msgs, nominatim, history)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpapi.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "fastseller"})
	})

	// Public routes
	authGroup := e.Group("/api/auth")
	authGroup.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/register", api.Register)
	authGroup.POST("/login", api.Login)

	e.GET("/api/items", api.ListItems)
	e.GET("/api/items/:id", api.GetItem)

	e.GET("/api/geo/reverse", api.ReverseGeocode)
	e.GET("/api/geo/search", api.SearchPlaces)
	e.GET("/api/geo/nearby", api.NearbyItems, mware.OptionalJWT(authSvc.ParseToken))
	e.GET("/api/geo/history", api.SearchHistory)
	e.DELETE("/api/geo/history", api.ClearSearchHistory)

	e.POST("/api/support/assistant", api.AssistantReply)

	// Favorites work for anonymous users too: everyone without a token
	// shares the guest bucket.
	e.GET("/api/favorites", api.ListFavorites, mware.OptionalJWT(authSvc.ParseToken))
	e.POST("/api/favorites/:itemId/toggle", api.ToggleFavorite, mware.OptionalJWT(authSvc.ParseToken))

	e.GET("/api/messages/:conversation", api.GetMessages, mware.OptionalJWT(authSvc.ParseToken))
	e.POST("/api/messages/:conversation", api.SendMessage, mware.OptionalJWT(authSvc.ParseToken))

	// Protected routes
	protected := e.Group("/api", mware.JWT(authSvc.ParseToken))
	protected.GET("/auth/me", api.Me)
	protected.PATCH("/auth/profile", api.UpdateProfile)
	protected.POST("/items", api.CreateItem)
	protected.PUT("/items/:id", api.UpdateItem)
	protected.DELETE("/items/:id", api.DeleteItem)
	protected.POST("/orders", api.PlaceOrder)
	protected.GET("/orders", api.ListOrders)

	logger.Info("avvio server", zap.String("port", cfg.Port))
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
