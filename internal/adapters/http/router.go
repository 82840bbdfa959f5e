package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lsampaio/product-api/internal/adapters/config"
	"github.com/lsampaio/product-api/internal/adapters/http/controllers"
	"github.com/lsampaio/product-api/internal/adapters/http/middleware"
)

type Router struct {
	healthController  *controllers.HealthController
	authController    *controllers.AuthController
	productController *controllers.ProductController
	authenticator     middleware.TokenAuthenticator
	rateLimiter       middleware.RateLimiter
}

func NewRouter(
	healthController *controllers.HealthController,
	authController *controllers.AuthController,
	productController *controllers.ProductController,
	authenticator middleware.TokenAuthenticator,
	rateLimiter middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:  healthController,
		authController:    authController,
		productController: productController,
		authenticator:     authenticator,
		rateLimiter:       rateLimiter,
	}
}

func (r *Router) SetupRoutes(router *gin.Engine) {
	rl := r.rateLimiter
	auth := middleware.Auth(r.authenticator)

	apiGroup := router.Group("/api")
	v1Group := apiGroup.Group("/v1")
	{
		v1Group.Use(middleware.LogRequest())
		v1Group.GET("/health", r.healthController.Health)

		v1Group.POST("/auth/register", middleware.RateLimit(rl, 10, 1*time.Minute), r.authController.Register)
		v1Group.POST("/auth/login", middleware.RateLimit(rl, 10, 1*time.Minute), r.authController.Login)
		v1Group.POST("/auth/logout", auth, r.authController.Logout)
		v1Group.GET("/users/me", auth, r.authController.Me)

		v1Group.POST("/products", auth, middleware.RateLimit(rl, 30, 1*time.Minute), r.productController.CreateProduct)
		// Reads are public: fetching a product by id needs no token.
		v1Group.GET("/products/:id", r.productController.GetProduct)
		v1Group.PUT("/products/:id", auth, r.productController.UpdateProduct)
		v1Group.DELETE("/products/:id", auth, r.productController.DeleteProduct)
	}
}

func (r *Router) ListenAndServe(ctx context.Context, config config.HTTPConfig) error {
	engine := gin.Default()
	r.SetupRoutes(engine)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", config.BindInterface, config.Port),
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
