package httpx

import "time"

// --- requests ---

type UpdateCartRequest struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Flavours []string `json:"flavours,omitempty"`
}

type AddToCartRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type ToggleFlavourRequest struct {
	Flavour string `json:"flavour"`
}

type ConfirmFlavoursRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type RateOrderRequest struct {
	Rating int `json:"rating"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

type ProfileRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	PIN     string `json:"pin"`
}

// --- responses ---

type CartLineResponse struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Flavours []string `json:"flavours,omitempty"`
}

type CartResponse struct {
	Items      []CartLineResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	Subtotal   float64            `json:"subtotal"`
	Discount   float64            `json:"discount"`
	GST        float64            `json:"gst"`
	Total      float64            `json:"total"`
}

// FlavourSelectionResponse is returned when adding a customizable product:
// the client must pick flavours before the line can be created.
type FlavourSelectionResponse struct {
	FlavourSelectionRequired bool              `json:"flavour_selection_required"`
	Product                  string            `json:"product"`
	Flavours                 []FlavourResponse `json:"flavours"`
}

type FlavourResponse struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type OrderItemResponse struct {
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	Flavours   []string `json:"flavours,omitempty"`
	MRP        float64  `json:"mrp"`
	UnitPrice  float64  `json:"unit_price"`
	Subtotal   float64  `json:"subtotal"`
	CoverImage string   `json:"cover_image,omitempty"`
}

type OrderResponse struct {
	ID                 string              `json:"id"`
	Date               string              `json:"date"`
	Status             string              `json:"status"`
	Items              []OrderItemResponse `json:"items"`
	Subtotal           float64             `json:"subtotal"`
	Discount           float64             `json:"discount"`
	GST                float64             `json:"gst"`
	Total              float64             `json:"total"`
	Rating             int                 `json:"rating,omitempty"`
	CancellationReason string              `json:"cancellation_reason,omitempty"`
}

type TimelineEntryResponse struct {
	Status  string    `json:"status"`
	Note    string    `json:"note,omitempty"`
	At      time.Time `json:"at"`
	TraceID string    `json:"trace_id,omitempty"`
}

type SessionResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
	Email  string `json:"email"`
}

type UIStateResponse struct {
	Modal       string          `json:"modal"`
	AuthVariant string          `json:"auth_variant,omitempty"`
	Product     string          `json:"product,omitempty"`
	Backdrop    bool            `json:"backdrop"`
	Toasts      []ToastResponse `json:"toasts"`
}

type ToastResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
