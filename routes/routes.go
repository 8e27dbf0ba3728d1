package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tokomaterial/controllers"
	"tokomaterial/logging"
	"tokomaterial/middleware"
)

type Controllers struct {
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Shipping *controllers.ShippingController
	Orders   *controllers.OrderController
	Payments *controllers.PaymentController
}

func RegisterRoutes(r *gin.Engine, ctl Controllers) {
	r.Use(middleware.MetricsMiddleware(), middleware.RequestLogger(logging.New("http")))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Called by the payment gateway; signature verification is the only
		// authentication this endpoint gets.
		api.POST("/payments/notifications", ctl.Payments.Notification)

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/cart/merge", ctl.Cart.Merge)
			protected.POST("/checkout/validate", ctl.Checkout.Validate)
			protected.POST("/shipping/quotes", ctl.Shipping.Quote)

			protected.POST("/orders", ctl.Orders.Create)
			protected.GET("/orders", ctl.Orders.List)
			protected.GET("/orders/:id", ctl.Orders.Get)
			protected.PUT("/orders/:id/cancel", ctl.Orders.Cancel)
			protected.POST("/orders/:id/payment", ctl.Orders.PaymentToken)
		}
	}
}
