package checkout

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/storefront/cart"
	"storefront/internal/storefront/tracking"
)

const (
	SubmitFailedMessage = "Failed to place order. Please try again."
	EmptyCartMessage    = "Your cart is empty"
)

var ErrSubmitInFlight = errors.New("checkout: an order submission is already in flight")

// Gateway is the order-creating side of the API client.
type Gateway interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error)
}

// Flow is the checkout screen state: the form, per-field errors, one
// form-level submit error and the in-flight flag. It is driven from the UI
// loop and is not safe for concurrent use.
type Flow struct {
	form           Form
	cart           *cart.Store
	fieldErrors    map[string]string
	submitError    string
	submitting     bool
	createdOrderID string
	logger         *zap.Logger
}

func NewFlow(c *cart.Store, logger *zap.Logger) *Flow {
	return &Flow{
		cart:        c,
		fieldErrors: make(map[string]string),
		logger:      logger,
	}
}

func (f *Flow) Form() Form {
	return f.form
}

// SetField updates one form field and clears the error shown for it.
func (f *Flow) SetField(field, value string) {
	if !f.form.set(field, value) {
		return
	}
	delete(f.fieldErrors, field)
}

func (f *Flow) FieldError(field string) string {
	return f.fieldErrors[field]
}

func (f *Flow) HasFieldErrors() bool {
	return len(f.fieldErrors) > 0
}

func (f *Flow) SubmitError() string {
	return f.submitError
}

func (f *Flow) Submitting() bool {
	return f.submitting
}

func (f *Flow) CanSubmit() bool {
	return !f.submitting
}

// CreatedOrderID is the id of the order placed by the last successful
// submission, or "".
func (f *Flow) CreatedOrderID() string {
	return f.createdOrderID
}

// Route is where the UI should navigate after a successful submission, or ""
// while the user stays on checkout.
func (f *Flow) Route() string {
	if f.createdOrderID == "" {
		return ""
	}
	return tracking.Route(f.createdOrderID)
}

// Begin validates the form and the cart. On success it marks the flow as
// submitting and returns the request to send. It returns ErrSubmitInFlight
// while a previous submission has not completed, or a ValidationError whose
// details are also recorded as field errors.
func (f *Flow) Begin() (dto.CreateOrderRequest, error) {
	if f.submitting {
		return dto.CreateOrderRequest{}, ErrSubmitInFlight
	}

	f.submitError = ""
	if verr := f.validate(); verr != nil {
		f.fieldErrors = make(map[string]string, len(verr.Details))
		for _, d := range verr.Details {
			f.fieldErrors[d.Field] = d.Message
		}
		return dto.CreateOrderRequest{}, verr
	}
	f.fieldErrors = make(map[string]string)

	items := f.cart.OrderItems()
	req := dto.CreateOrderRequest{
		CustomerName:    strings.TrimSpace(f.form.Name),
		CustomerAddress: strings.TrimSpace(f.form.Address),
		CustomerPhone:   strings.TrimSpace(f.form.Phone),
		Items:           make([]dto.OrderItemDTO, len(items)),
	}
	for i, it := range items {
		req.Items[i] = dto.FromOrderItem(it)
	}

	f.submitting = true
	return req, nil
}

// Complete applies the outcome of the create-order call and returns the route
// to navigate to. On success the cart is cleared; on failure the form and the
// cart are left untouched and a single submit error is shown.
func (f *Flow) Complete(order *domain.Order, err error) string {
	f.submitting = false

	if err == nil && order == nil {
		err = apperrors.NewInternalError("create order returned no order", nil)
	}
	if err != nil {
		f.submitError = SubmitFailedMessage
		f.logger.Error("failed to place order", zap.Error(err))
		return ""
	}

	f.cart.Clear()
	f.createdOrderID = order.ID
	f.logger.Info("order placed",
		zap.String("orderId", order.ID),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)
	return f.Route()
}

// Submit runs Begin, the create-order call and Complete in sequence.
func (f *Flow) Submit(ctx context.Context, gw Gateway) (string, error) {
	req, err := f.Begin()
	if err != nil {
		return "", err
	}

	order, err := gw.CreateOrder(ctx, req)
	route := f.Complete(order, err)
	return route, err
}

func (f *Flow) validate() *apperrors.ValidationError {
	verr := f.form.Validate()
	if !f.cart.IsEmpty() {
		return verr
	}

	empty := apperrors.ValidationDetail{Field: FieldItems, Message: EmptyCartMessage}
	if verr == nil {
		return apperrors.NewValidationError("invalid checkout form", empty)
	}
	verr.Details = append(verr.Details, empty)
	return verr
}
