package controller

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	SimulateProgress(ctx context.Context, id string) (*domain.Order, error)
}

var phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)

const (
	maxItems    = 100
	maxQuantity = math.MaxInt32 // OrderItems.quantity is a signed INT
)

type OrderController struct {
	useCase OrderUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase OrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orders, err := c.useCase.ListOrders(r.Context())
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	resp := make([]dto.OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = dto.FromOrder(o)
	}
	c.writeJSON(w, http.StatusOK, resp)
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	orderID := chi.URLParam(r, "orderId")
	logger := c.logger.With(zap.String("traceId", traceID), zap.String("orderId", orderID))

	order, err := c.useCase.GetOrder(r.Context(), orderID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.FromOrder(*order))
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	// Decode request body
	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if validationErr := validateCreateOrderRequest(req); validationErr != nil {
		c.writeValidationError(w, traceID, validationErr.Message, validationErr.Details...)
		return
	}

	order, err := c.useCase.CreateOrder(r.Context(), req)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	logger.Info("order placed", zap.String("orderId", order.ID))
	c.writeJSON(w, http.StatusCreated, dto.FromOrder(*order))
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	orderID := chi.URLParam(r, "orderId")
	logger := c.logger.With(zap.String("traceId", traceID), zap.String("orderId", orderID))

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	order, err := c.useCase.UpdateStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.FromOrder(*order))
}

func (c *OrderController) SimulateProgress(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	orderID := chi.URLParam(r, "orderId")
	logger := c.logger.With(zap.String("traceId", traceID), zap.String("orderId", orderID))

	order, err := c.useCase.SimulateProgress(r.Context(), orderID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.FromOrder(*order))
}

func validateCreateOrderRequest(req dto.CreateOrderRequest) *apperrors.ValidationError {
	var details []apperrors.ValidationDetail
	add := func(field, message string) {
		details = append(details, apperrors.ValidationDetail{Field: field, Message: message})
	}

	customer := []struct {
		field  string
		value  string
		maxLen int
	}{
		{"customer_name", req.CustomerName, domain.MaxCustomerNameLen},
		{"customer_address", req.CustomerAddress, domain.MaxCustomerAddressLen},
		{"customer_phone", req.CustomerPhone, domain.MaxCustomerPhoneLen},
	}
	for _, f := range customer {
		value := strings.TrimSpace(f.value)
		switch {
		case value == "":
			add(f.field, f.field+" is required")
		case utf8.RuneCountInString(value) > f.maxLen:
			add(f.field, f.field+" must be at most "+strconv.Itoa(f.maxLen)+" characters")
		}
	}

	if phone := strings.TrimSpace(req.CustomerPhone); phone != "" && !validPhone(phone) {
		add("customer_phone", "invalid phone number format")
	}

	if len(req.Items) == 0 {
		add("items", "items must not be empty")
	}

	if len(req.Items) > maxItems {
		add("items", "items exceeds maximum of "+strconv.Itoa(maxItems))
	}

	total := decimal.Zero
	linesValid := true
	for idx, item := range req.Items {
		prefix := "items[" + strconv.Itoa(idx) + "]"
		before := len(details)

		switch {
		case strings.TrimSpace(item.ID) == "":
			add(prefix+".id", "id is required")
		case utf8.RuneCountInString(item.ID) > domain.MaxItemIDLen:
			add(prefix+".id", "id must be at most "+strconv.Itoa(domain.MaxItemIDLen)+" characters")
		}

		if utf8.RuneCountInString(item.Name) > domain.MaxItemNameLen {
			add(prefix+".name", "name must be at most "+strconv.Itoa(domain.MaxItemNameLen)+" characters")
		}

		switch {
		case item.Quantity < 1:
			add(prefix+".quantity", "quantity must be at least 1")
		case item.Quantity > maxQuantity:
			add(prefix+".quantity", "quantity must be at most "+strconv.Itoa(maxQuantity))
		}

		price := decimal.NewFromFloat(item.Price)
		switch {
		case price.IsNegative():
			add(prefix+".price", "price must be non-negative")
		case price.GreaterThan(domain.MaxAmount):
			add(prefix+".price", "price must not exceed "+domain.MaxAmount.StringFixed(domain.MoneyPlaces))
		case domain.HasSubCent(price):
			add(prefix+".price", "price must have at most 2 decimal places")
		}

		if len(details) > before {
			linesValid = false
			continue
		}

		subtotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if subtotal.GreaterThan(domain.MaxAmount) {
			add(prefix+".quantity", "line total must not exceed "+domain.MaxAmount.StringFixed(domain.MoneyPlaces))
			linesValid = false
			continue
		}
		total = total.Add(subtotal)
	}

	if linesValid && total.GreaterThan(domain.MaxAmount) {
		add("items", "order total must not exceed "+domain.MaxAmount.StringFixed(domain.MoneyPlaces))
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

// validPhone accepts digits, spaces, dashes, plus signs and parentheses, with
// at least one digit.
func validPhone(phone string) bool {
	return phonePattern.MatchString(phone) && strings.ContainsAny(phone, "0123456789")
}

func (c *OrderController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "CONFLICT", err.Error())
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "DEADLOCK", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *OrderController) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, code string, message string) {
	response := dto.ErrorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Message:   message,
		Code:      code,
		Timestamp: time.Now().UTC(),
	}

	c.writeJSON(w, statusCode, response)
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, traceID string, message string, details ...apperrors.ValidationDetail) {
	response := dto.ValidationErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}

	c.writeJSON(w, http.StatusBadRequest, response)
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
