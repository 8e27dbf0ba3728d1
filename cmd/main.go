package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"tokomaterial/cart"
	"tokomaterial/checkout"
	"tokomaterial/config"
	"tokomaterial/controllers"
	"tokomaterial/database"
	"tokomaterial/logging"
	"tokomaterial/orders"
	"tokomaterial/payment"
	"tokomaterial/routes"
	"tokomaterial/shipping"
)

func main() {
	config.LoadEnv()
	log := logging.Init("tokomaterial", config.GetEnv("LOG_FILE", "./logs/app.log"))

	if err := config.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	if err := database.ConnectMongo(); err != nil {
		log.Error("mongodb connection failed", "err", err)
		os.Exit(1)
	}
	database.InitCollections()

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	rateClient := shipping.NewRateClient(
		config.GetEnv("RATEAPI_BASE_URL", "https://api.rajaongkir.example"),
		os.Getenv("RATEAPI_KEY"),
	)
	engine := shipping.NewEngine(
		rateClient,
		config.GetEnv("WAREHOUSE_ORIGIN", "501"),
		shipping.NewQuoteCache(rdb, time.Hour),
	)

	catalog := checkout.NewMongoCatalog(database.ProductCollection)
	validator := checkout.NewValidator(catalog)
	orderStore := orders.NewMongoStore(database.OrderCollection)
	factory := orders.NewFactory(orderStore)

	serverKey := os.Getenv("MIDGATE_SERVER_KEY")
	gateway := payment.NewGateway(config.GetEnv("MIDGATE_BASE_URL", "https://app.sandbox.midgate.example"), serverKey, nil)
	webhook := payment.NewWebhook(serverKey, orderStore, catalog)

	r := gin.New()
	r.Use(gin.Recovery())
	r.SetTrustedProxies(nil)
	routes.RegisterRoutes(r, routes.Controllers{
		Cart:     controllers.NewCartController(cart.NewMongoStore(database.CartCollection)),
		Checkout: controllers.NewCheckoutController(validator),
		Shipping: controllers.NewShippingController(engine),
		Orders:   controllers.NewOrderController(validator, factory, orderStore, gateway),
		Payments: controllers.NewPaymentController(webhook),
	})

	port := config.GetEnv("PORT", "8080")
	log.Info("starting http server", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Error("http server stopped", "err", err)
		os.Exit(1)
	}
}
