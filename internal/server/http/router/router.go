package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/ezla-online/portal/internal/server/http/handlers"
	"github.com/ezla-online/portal/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.PortalFacade, logger *slog.Logger) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedExtensions([]string{".pdf"})))

	authHandler := handlers.NewAuthHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	caseHandler := handlers.NewCaseHandler(facade)
	accountHandler := handlers.NewAccountHandler(facade)

	api := engine.Group("/api")

	payments := api.Group("/payments/autopay")
	payments.POST("/itn", paymentHandler.Notification)
	payments.POST("/return", paymentHandler.Return)

	cases := api.Group("/cases")
	cases.Use(middleware.AuthOptional(facade))
	cases.POST("", caseHandler.Create)
	cases.GET("/:id", caseHandler.Get)
	cases.POST("/:id/payment", caseHandler.Payment)
	cases.GET("/:id/summary.pdf", caseHandler.Summary)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.GET("/cases", caseHandler.List)
	userAuth.GET("/profile", accountHandler.Profile)
	userAuth.PUT("/profile", accountHandler.SaveProfile)
	userAuth.DELETE("", accountHandler.Delete)

	return engine, nil
}
