package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	apiHandler "github.com/fastygo/commerce/api/handler"
	"github.com/fastygo/commerce/pkg/metrics"
)

type Handlers struct {
	Product *apiHandler.ProductHandler
	Order   *apiHandler.OrderHandler
	Health  *apiHandler.HealthHandler
}

// New registers every route. metrics may be nil, in which case /metrics is not served.
func New(handlers Handlers, m *metrics.Metrics) *router.Router {
	r := router.New()
	r.SaveMatchedRoutePath = true

	r.GET("/health", handlers.Health.Check)
	if m != nil {
		r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(m.Handler()))
	}

	// Catalog
	r.POST("/api/v1/products", handlers.Product.CreateProduct)
	r.GET("/api/v1/products", handlers.Product.ListProducts)
	r.GET("/api/v1/products/{id}", handlers.Product.GetProduct)
	r.PUT("/api/v1/products/{id}", handlers.Product.UpdateProductInfo)
	r.PUT("/api/v1/products/{id}/price", handlers.Product.UpdateProductPrice)
	r.POST("/api/v1/products/{id}/activate", handlers.Product.ActivateProduct)
	r.POST("/api/v1/products/{id}/deactivate", handlers.Product.DeactivateProduct)

	// Ordering
	r.POST("/api/v1/orders", handlers.Order.CreateOrder)
	r.GET("/api/v1/orders", handlers.Order.ListOrders)
	r.GET("/api/v1/order-statistics", handlers.Order.Statistics)
	r.GET("/api/v1/orders/{id}", handlers.Order.GetOrder)
	r.GET("/api/v1/orders/{id}/quote", handlers.Order.QuoteOrder)
	r.PUT("/api/v1/orders/{id}/customer", handlers.Order.SetCustomerInfo)
	r.POST("/api/v1/orders/{id}/items", handlers.Order.AddItem)
	r.PUT("/api/v1/orders/{id}/items/{productId}", handlers.Order.UpdateItemQuantity)
	r.DELETE("/api/v1/orders/{id}/items/{productId}", handlers.Order.RemoveItem)
	r.POST("/api/v1/orders/{id}/submit", handlers.Order.SubmitOrder)
	r.POST("/api/v1/orders/{id}/confirm", handlers.Order.ConfirmOrder)
	r.POST("/api/v1/orders/{id}/process", handlers.Order.StartProcessing)
	r.POST("/api/v1/orders/{id}/ship", handlers.Order.ShipOrder)
	r.POST("/api/v1/orders/{id}/deliver", handlers.Order.DeliverOrder)
	r.POST("/api/v1/orders/{id}/cancel", handlers.Order.CancelOrder)

	return r
}

// Wrap applies middleware outermost-first.
func Wrap(h fasthttp.RequestHandler, middleware ...func(fasthttp.RequestHandler) fasthttp.RequestHandler) fasthttp.RequestHandler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
