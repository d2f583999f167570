package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/crumbsugar/storefront/internal/httpx/middlewares"
)

// NewRouter assembles the storefront API. The whole tree is wrapped in
// otelhttp so every request gets a server span; the session middleware runs
// inside it so auth calls are traced too.
func NewRouter(handler *Handler, verifier middlewares.Verifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.ResolveSession(verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", handler.ListProducts)
		r.Get("/products/{slug}", handler.GetProduct)
		r.Get("/search", handler.Search)
		r.Get("/faqs", handler.ListFAQs)

		r.Get("/cart", handler.GetCart)
		r.Put("/cart", handler.UpdateCart)
		r.Delete("/cart", handler.ClearCart)
		r.Post("/cart/items", handler.AddToCart)

		r.Post("/picker/flavours", handler.ToggleFlavour)
		r.Post("/picker/confirm", handler.ConfirmFlavours)
		r.Post("/picker/cancel", handler.CancelFlavours)

		r.Get("/ui", handler.GetUIState)
		r.Post("/ui/modal", handler.ShowModal)
		r.Delete("/ui/toasts/{id}", handler.DismissToast)

		r.Get("/profile", handler.GetProfile)
		r.Put("/profile", handler.UpdateProfile)

		r.Post("/checkout", handler.Checkout)

		r.Get("/orders", handler.ListOrders)
		r.Get("/orders/{id}", handler.GetOrder)
		r.Get("/orders/{id}/timeline", handler.GetOrderTimeline)
		r.Post("/orders/{id}/cancel", handler.CancelOrder)
		r.Post("/orders/{id}/rating", handler.RateOrder)

		// The admin order list reuses the full history; status moves are
		// the admin's action in the lifecycle.
		r.Get("/admin/orders", handler.ListOrders)
		r.Post("/admin/orders/{id}/status", handler.UpdateOrderStatus)

		r.Post("/auth/sign-in", handler.SignIn)
		r.Post("/auth/sign-up", handler.SignUp)
		r.Post("/auth/reset-password", handler.ResetPassword)
	})

	return otelhttp.NewHandler(r, "storefront")
}
