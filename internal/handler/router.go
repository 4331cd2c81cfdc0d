package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"storefront/internal/handler/api"
	"storefront/internal/handler/middleware"
	"storefront/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	orderHandler *api.OrderHandler,
	couponHandler *api.CouponHandler,
	loyaltyHandler *api.LoyaltyHandler,
	referralHandler *api.ReferralHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, orderHandler, couponHandler, loyaltyHandler, referralHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	orderHandler *api.OrderHandler,
	couponHandler *api.CouponHandler,
	loyaltyHandler *api.LoyaltyHandler,
	referralHandler *api.ReferralHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		orders := apiGroup.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "", Handler: orderHandler.CreateOrder},
				{Method: http.MethodGet, Path: "", Handler: orderHandler.GetUserOrders},
				{Method: http.MethodGet, Path: "/:id", Handler: orderHandler.GetOrder},
				{Method: http.MethodPost, Path: "/:id/pay", Handler: orderHandler.PayOrder},
				{Method: http.MethodPost, Path: "/:id/deliver", Handler: orderHandler.DeliverOrder,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(middleware.RoleAdmin)}},
			})
		}

		coupons := apiGroup.Group("/coupons")
		coupons.Use(authMiddleware.RequireAuth())
		{
			addRoutes(coupons, []route{
				{Method: http.MethodPost, Path: "/validate", Handler: couponHandler.ValidateCoupon},
			})
		}

		loyalty := apiGroup.Group("/loyalty")
		loyalty.Use(authMiddleware.RequireAuth())
		{
			addRoutes(loyalty, []route{
				{Method: http.MethodGet, Path: "/account", Handler: loyaltyHandler.GetAccount},
				{Method: http.MethodPost, Path: "/redeem", Handler: loyaltyHandler.RedeemReward},
				{Method: http.MethodPost, Path: "/award", Handler: loyaltyHandler.AwardPoints,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(middleware.RoleAdmin)}},
				{Method: http.MethodPost, Path: "/expire", Handler: loyaltyHandler.ExpirePoints,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(middleware.RoleAdmin)}},
			})
		}

		referrals := apiGroup.Group("/referrals")
		referrals.Use(authMiddleware.RequireAuth())
		{
			addRoutes(referrals, []route{
				{Method: http.MethodPost, Path: "", Handler: referralHandler.CreateReferral},
				{Method: http.MethodGet, Path: "", Handler: referralHandler.ListReferrals},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
