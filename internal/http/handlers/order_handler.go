// Order HTTP handlers.
//
// This file exposes REST endpoints for service fulfillment (taxi rides and
// job applications):
//   - POST /orders/{kind}           (submit; starts the search)
//   - GET  /orders/{kind}           (current state plus pending notifications)
//   - POST /orders/{kind}/start     (matched -> in progress)
//   - POST /orders/{kind}/complete  (in progress -> completed)
//
// Order submission honors the Idempotency-Key header: a replayed key
// returns the current slot state instead of rejecting the duplicate.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nkarpov/go-superapp-backend/internal/fulfillment"
	"github.com/nkarpov/go-superapp-backend/internal/http/middleware"
	"github.com/nkarpov/go-superapp-backend/internal/repo"
)

//
// DTOs
//

// SubmitOrderRequest is the JSON payload for starting a fulfillment order.
// For taxi orders Origin/Destination are addresses and Tariff the fare
// class; for job applications Origin is the applicant name, Destination the
// desired position, and Tariff the expected salary.
type SubmitOrderRequest struct {
	Origin      string `json:"origin" binding:"required,min=1" example:"ул. Ленина, 1"`
	Destination string `json:"destination" binding:"required,min=1" example:"Аэропорт"`
	Tariff      string `json:"tariff" example:"Комфорт"`
}

// OrderResponse carries the slot state and any notifications queued since
// the previous poll.
type OrderResponse struct {
	Order         fulfillment.Order          `json:"order"`
	Notifications []fulfillment.Notification `json:"notifications,omitempty"`
}

// orderKind parses and validates the :kind path parameter, writing a 404
// when the kind is unknown.
func orderKind(c *gin.Context) (fulfillment.Kind, bool) {
	k, err := fulfillment.ParseKind(c.Param("kind"))
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "unknown order kind")
		return "", false
	}
	return k, true
}

//
// Handlers
//

// SubmitOrder godoc
// @ID          submitOrder
// @Summary     Submit an order
// @Description Starts the fulfillment cycle for the given kind. The slot moves to "searching" and
// @Description progresses to "matched" on its own after the configured search delay.
// @Tags        Orders
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       kind             path    string  true  "Order kind"  Enums(taxi, job)
// @Param       body             body    handlers.SubmitOrderRequest  true  "Order payload"
//
// @Success     201  {object} handlers.OrderResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     404  {object} handlers.ErrorResponse "Unknown kind"
// @Failure     409  {object} handlers.ErrorResponse "An order is already active"
// @Router      /orders/{kind} [post]
func (h *Handlers) SubmitOrder(c *gin.Context) {
	kind, okKind := orderKind(c)
	if !okKind {
		return
	}
	uid := userID(c)
	scope := "order:" + string(kind)

	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, "origin and destination required")
		return
	}

	// Idempotency (replay path): a known key means the original submit
	// already ran, so return the live slot instead of a conflict.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && h.db != nil {
		if rec, err := repo.GetIdempotency(c.Request.Context(), h.db, uid, scope, idemKey, time.Now().UTC()); err == nil && rec != nil {
			c.Header("Idempotency-Replayed", "true")
			ok(c, http.StatusOK, OrderResponse{Order: h.orders.Get(uid, kind)})
			return
		}
	}

	order, err := h.orders.Submit(uid, kind, req.Origin, req.Destination, req.Tariff)
	if err != nil {
		switch {
		case errors.Is(err, fulfillment.ErrMissingFields):
			fail(c, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		case errors.Is(err, fulfillment.ErrOrderActive):
			fail(c, http.StatusConflict, ErrCodeConflict, "an order of this kind is already active")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	// Idempotency (store path), best effort.
	if idemKey != "" && h.db != nil {
		ttl := 24 * time.Hour
		_, _ = repo.CreateIdempotency(c.Request.Context(), h.db, uid, scope, idemKey, order.ID, http.StatusCreated, ttl)
	}

	ok(c, http.StatusCreated, OrderResponse{
		Order:         order,
		Notifications: h.feed.Drain(uid),
	})
}

// GetOrder godoc
// @ID          getOrder
// @Summary     Poll order state
// @Description Returns the current slot state for the kind plus any notifications queued since the last poll.
// @Tags        Orders
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       kind       path    string  true  "Order kind"  Enums(taxi, job)
//
// @Success     200  {object} handlers.OrderResponse
// @Failure     404  {object} handlers.ErrorResponse "Unknown kind"
// @Router      /orders/{kind} [get]
func (h *Handlers) GetOrder(c *gin.Context) {
	kind, okKind := orderKind(c)
	if !okKind {
		return
	}
	uid := userID(c)

	ok(c, http.StatusOK, OrderResponse{
		Order:         h.orders.Get(uid, kind),
		Notifications: h.feed.Drain(uid),
	})
}

// StartOrder godoc
// @ID          startOrder
// @Summary     Start a matched order
// @Description Moves a matched order to in progress (ride started / first working day).
// @Tags        Orders
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       kind       path    string  true  "Order kind"  Enums(taxi, job)
//
// @Success     200  {object} handlers.OrderResponse
// @Failure     404  {object} handlers.ErrorResponse "Unknown kind"
// @Failure     409  {object} handlers.ErrorResponse "Order is not in a startable state"
// @Router      /orders/{kind}/start [post]
func (h *Handlers) StartOrder(c *gin.Context) {
	kind, okKind := orderKind(c)
	if !okKind {
		return
	}
	uid := userID(c)

	order, err := h.orders.Start(uid, kind)
	if err != nil {
		fail(c, http.StatusConflict, ErrCodeInvalidTransition, err.Error())
		return
	}

	ok(c, http.StatusOK, OrderResponse{
		Order:         order,
		Notifications: h.feed.Drain(uid),
	})
}

// CompleteOrder godoc
// @ID          completeOrder
// @Summary     Complete an order
// @Description Moves an in-progress order to completed. The slot returns to idle on its own after the reset delay.
// @Tags        Orders
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       kind       path    string  true  "Order kind"  Enums(taxi, job)
//
// @Success     200  {object} handlers.OrderResponse
// @Failure     404  {object} handlers.ErrorResponse "Unknown kind"
// @Failure     409  {object} handlers.ErrorResponse "Order is not in progress"
// @Router      /orders/{kind}/complete [post]
func (h *Handlers) CompleteOrder(c *gin.Context) {
	kind, okKind := orderKind(c)
	if !okKind {
		return
	}
	uid := userID(c)

	order, err := h.orders.Complete(uid, kind)
	if err != nil {
		fail(c, http.StatusConflict, ErrCodeInvalidTransition, err.Error())
		return
	}

	ok(c, http.StatusOK, OrderResponse{
		Order:         order,
		Notifications: h.feed.Drain(uid),
	})
}
