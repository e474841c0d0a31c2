package router

import (
	"net/http"

	"simple-shop/internal/handler"
	"simple-shop/internal/middleware"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	healthHandler *handler.HealthHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", healthHandler.Root)
	mux.HandleFunc("GET /health", healthHandler.Health)

	mux.HandleFunc("GET /api/products", productHandler.GetAll)
	mux.HandleFunc("GET /api/products/{productId}", productHandler.GetByID)

	mux.HandleFunc("POST /api/cart", cartHandler.Create)
	mux.HandleFunc("GET /api/cart/{sessionId}", cartHandler.Get)
	mux.HandleFunc("POST /api/cart/{sessionId}/items", cartHandler.AddItem)
	mux.HandleFunc("DELETE /api/cart/{sessionId}/items/{productId}", cartHandler.RemoveItem)

	mux.HandleFunc("POST /api/checkout", orderHandler.Checkout)
	mux.HandleFunc("GET /api/orders/{orderId}", orderHandler.GetByID)

	// Apply middleware in order: otelhttp -> RequestID -> Logging -> Recovery -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = otelhttp.NewHandler(handler, "simple-shop")

	return handler
}
