package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crumbsugar/storefront/internal/auth"
	"github.com/crumbsugar/storefront/internal/cart"
	"github.com/crumbsugar/storefront/internal/catalog"
	"github.com/crumbsugar/storefront/internal/checkout"
	"github.com/crumbsugar/storefront/internal/httpx/middlewares"
	"github.com/crumbsugar/storefront/internal/modal"
	"github.com/crumbsugar/storefront/internal/order"
	"github.com/crumbsugar/storefront/internal/picker"
	"github.com/crumbsugar/storefront/internal/pricing"
	"github.com/crumbsugar/storefront/internal/profile"
)

// Handler serves the storefront API: catalog browsing, the cart, the
// flavour picker flow, checkout, order history, and the profile.
type Handler struct {
	catalog  *catalog.Service
	carts    *cart.Service
	checkout *checkout.Service
	orders   *order.Service
	profiles *profile.Service
	auth     auth.Client

	// The session UI state. The storefront has a single active client, so
	// one picker and one modal orchestrator serve the process; the mutex
	// covers the picker, which is not concurrency-safe on its own.
	mu     sync.Mutex
	ui     *modal.Orchestrator
	picker *picker.Picker
}

func NewHandler(
	cat *catalog.Service,
	carts *cart.Service,
	co *checkout.Service,
	orders *order.Service,
	profiles *profile.Service,
	authClient auth.Client,
) *Handler {
	return &Handler{
		catalog:  cat,
		carts:    carts,
		checkout: co,
		orders:   orders,
		profiles: profiles,
		auth:     authClient,
		ui:       modal.NewOrchestrator(),
		picker:   picker.New(),
	}
}

// --- catalog ---

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "content_api_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	product, err := h.catalog.ProductBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product_not_found", err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, "content_api_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "empty_query", "search query must not be empty")
			return
		}
		writeError(w, http.StatusBadGateway, "content_api_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.catalog.FAQs(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "content_api_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, faqs)
}

// --- cart ---

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, r, h.carts.Cart(r.Context()))
}

// UpdateCart sets one line directly (quantity steppers in the cart view).
func (h *Handler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	var req UpdateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	c, err := h.carts.Update(r.Context(), req.Name, req.Quantity, req.Flavours)
	if err != nil {
		h.writeCartError(w, err)
		return
	}
	h.writeCart(w, r, c)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "cart_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddToCart is the product-page action. Adding a customizable product for
// the first time opens the flavour picker instead of creating the line.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Name == "" || req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "name and a positive quantity are required")
		return
	}

	product, err := h.catalog.Product(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product_not_found", err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, "content_api_error", err.Error())
		return
	}

	current := h.carts.Cart(r.Context()).Quantity(req.Name)
	if picker.ShouldOpen(product, current) {
		h.mu.Lock()
		h.picker.Cancel()
		if err := h.picker.Open(product); err != nil {
			h.mu.Unlock()
			writeError(w, http.StatusInternalServerError, "picker_error", err.Error())
			return
		}
		h.ui.Show(modal.FlavourPicker(product.Name))
		h.mu.Unlock()

		writeJSON(w, http.StatusConflict, FlavourSelectionResponse{
			FlavourSelectionRequired: true,
			Product:                  product.Name,
			Flavours:                 mapFlavours(product.Flavours),
		})
		return
	}

	c, err := h.carts.Update(r.Context(), req.Name, current+req.Quantity, nil)
	if err != nil {
		h.writeCartError(w, err)
		return
	}
	h.ui.PushToast("Added to cart")
	h.writeCart(w, r, c)
}

// --- flavour picker ---

func (h *Handler) ToggleFlavour(w http.ResponseWriter, r *http.Request) {
	var req ToggleFlavourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.picker.Toggle(req.Flavour); err != nil {
		writeError(w, http.StatusConflict, "picker_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"can_confirm": h.picker.CanConfirm()})
}

func (h *Handler) ConfirmFlavours(w http.ResponseWriter, r *http.Request) {
	var req ConfirmFlavoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	h.mu.Lock()
	product := h.picker.Product().Name
	flavours, err := h.picker.Confirm()
	if err != nil {
		h.mu.Unlock()
		writeError(w, http.StatusConflict, "picker_error", err.Error())
		return
	}
	h.ui.Dismiss()
	h.mu.Unlock()

	c, err := h.carts.Update(r.Context(), product, req.Quantity, flavours)
	if err != nil {
		h.writeCartError(w, err)
		return
	}
	h.ui.PushToast("Added to cart")
	h.writeCart(w, r, c)
}

func (h *Handler) CancelFlavours(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	h.picker.Cancel()
	h.ui.Dismiss()
	h.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// --- session UI state ---

func (h *Handler) GetUIState(w http.ResponseWriter, _ *http.Request) {
	state := h.ui.Active()

	res := UIStateResponse{
		Modal:       modalName(state.Kind()),
		AuthVariant: string(state.AuthVariant()),
		Product:     state.Product(),
		Backdrop:    h.ui.BackdropVisible(),
		Toasts:      []ToastResponse{},
	}
	for _, t := range h.ui.ActiveToasts() {
		res.Toasts = append(res.Toasts, ToastResponse{ID: t.ID, Message: t.Message})
	}
	writeJSON(w, http.StatusOK, res)
}

// DismissToast removes one toast ahead of its TTL (the user swiped it away).
func (h *Handler) DismissToast(w http.ResponseWriter, r *http.Request) {
	if !h.ui.DismissToast(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "toast_not_found", "toast already gone")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ShowModal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Modal       string `json:"modal"`
		AuthVariant string `json:"auth_variant,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	switch req.Modal {
	case "cart":
		h.ui.Show(modal.CartOpen())
	case "profile":
		h.ui.Show(modal.ProfileOpen())
	case "auth":
		variant := modal.AuthVariant(req.AuthVariant)
		if variant == "" {
			variant = modal.AuthSignIn
		}
		h.ui.Show(modal.AuthOpen(variant))
	case "none":
		h.ui.Dismiss()
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "unknown modal "+req.Modal)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- checkout & orders ---

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	session, ok := middlewares.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication_required", "sign in to place an order")
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	o, err := h.checkout.Checkout(r.Context(), session.UserID, order.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			writeError(w, http.StatusBadRequest, "empty_cart", "the cart is empty")
			return
		}
		writeError(w, http.StatusInternalServerError, "checkout_error", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, mapOrderToResponse(o))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "order_error", err.Error())
		return
	}

	res := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		res = append(res, mapOrderToResponse(o))
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(o))
}

func (h *Handler) GetOrderTimeline(w http.ResponseWriter, r *http.Request) {
	entries, err := h.orders.Timeline(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
		return
	}

	res := make([]TimelineEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, TimelineEntryResponse{
			Status:  e.Status,
			Note:    e.Note,
			At:      e.At,
			TraceID: e.TraceID,
		})
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), order.Status(req.Status))
	if err != nil {
		h.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(o))
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	o, err := h.orders.Cancel(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		if errors.Is(err, order.ErrReasonRequired) {
			writeError(w, http.StatusBadRequest, "reason_required", "a cancellation reason is required")
			return
		}
		h.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(o))
}

func (h *Handler) RateOrder(w http.ResponseWriter, r *http.Request) {
	var req RateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	o, err := h.orders.Rate(r.Context(), chi.URLParam(r, "id"), req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidRating):
			writeError(w, http.StatusBadRequest, "invalid_rating", err.Error())
		case errors.Is(err, order.ErrNotCompleted):
			writeError(w, http.StatusConflict, "not_completed", err.Error())
		default:
			h.writeOrderError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(o))
}

// --- profile ---

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	session, _ := middlewares.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.profiles.Get(r.Context(), session.UserID))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	session, _ := middlewares.SessionFromContext(r.Context())
	info := profile.Info{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		PIN:     req.PIN,
	}
	if err := h.profiles.Save(r.Context(), session.UserID, info); err != nil {
		writeError(w, http.StatusInternalServerError, "profile_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// --- auth ---

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	h.credentialCall(w, r, h.auth.SignIn)
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	h.credentialCall(w, r, h.auth.SignUp)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := h.auth.ResetPassword(r.Context(), req.Email); err != nil {
		writeError(w, http.StatusUnauthorized, "auth_error", auth.UserMessage(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) credentialCall(
	w http.ResponseWriter,
	r *http.Request,
	call func(ctx context.Context, email, password string) (auth.Session, error),
) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	session, err := call(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "auth_error", auth.UserMessage(err))
		return
	}
	h.ui.Dismiss()
	writeJSON(w, http.StatusOK, SessionResponse{
		UserID: session.UserID,
		Token:  session.Token,
		Email:  session.Email,
	})
}

// --- helpers ---

func (h *Handler) writeCart(w http.ResponseWriter, r *http.Request, c cart.Cart) {
	summary, err := pricing.Summarize(r.Context(), c, h.catalog)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "pricing_error", err.Error())
		return
	}

	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]CartLineResponse, 0, len(names))
	for _, name := range names {
		line := c[name]
		items = append(items, CartLineResponse{
			Name:     name,
			Quantity: line.Quantity,
			Flavours: line.Flavours,
		})
	}

	writeJSON(w, http.StatusOK, CartResponse{
		Items:      items,
		TotalItems: c.TotalItems(),
		Subtotal:   summary.Subtotal,
		Discount:   summary.Discount,
		GST:        summary.GST,
		Total:      summary.Total,
	})
}

func (h *Handler) writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrUnknownProduct):
		writeError(w, http.StatusNotFound, "unknown_product", err.Error())
	case errors.Is(err, cart.ErrUnknownFlavour):
		writeError(w, http.StatusBadRequest, "unknown_flavour", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "cart_error", err.Error())
	}
}

func (h *Handler) writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, order.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "order_error", err.Error())
	}
}

func mapOrderToResponse(o order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			Name:       it.Name,
			Quantity:   it.Quantity,
			Flavours:   it.Flavours,
			MRP:        it.MRP,
			UnitPrice:  it.UnitPrice,
			Subtotal:   it.Subtotal,
			CoverImage: it.CoverImage,
		})
	}
	return OrderResponse{
		ID:                 o.ID,
		Date:               o.Date.Format(time.RFC3339),
		Status:             string(o.Status),
		Items:              items,
		Subtotal:           o.Subtotal,
		Discount:           o.Discount,
		GST:                o.GST,
		Total:              o.Total,
		Rating:             o.Rating,
		CancellationReason: o.CancellationReason,
	}
}

func mapFlavours(flavours []catalog.Flavour) []FlavourResponse {
	out := make([]FlavourResponse, 0, len(flavours))
	for _, f := range flavours {
		out = append(out, FlavourResponse{Name: f.Name, Price: f.Price})
	}
	return out
}

func modalName(k modal.Kind) string {
	switch k {
	case modal.KindCart:
		return "cart"
	case modal.KindProfile:
		return "profile"
	case modal.KindAuth:
		return "auth"
	case modal.KindFlavourPicker:
		return "flavour-picker"
	default:
		return "none"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
