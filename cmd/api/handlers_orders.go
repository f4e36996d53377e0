package main

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"campuskart/internal/models"
)

// smallestUnit converts a rupee amount to paise, rounding so float noise
// (249.99 -> 24998.999...) cannot shave a unit off the gateway amount.
func smallestUnit(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// orderRequest is the client-supplied order payload. The online flow echoes
// it back as orderOptions and the client resubmits it with the payment
// verification; the server holds no pending-order state in between.
type orderRequest struct {
	ShippingInfo   models.ShippingInfo `json:"shippingInfo"`
	OrderItems     []models.OrderItem  `json:"orderItems"`
	ItemsPrice     float64             `json:"itemsPrice"`
	DeliveryCharge float64             `json:"deliveryCharge"`
	TotalPrice     float64             `json:"totalPrice"`
}

func (app *application) newOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	userID, err := app.currentUserID(r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	order := models.Order{
		ShippingInfo:   req.ShippingInfo,
		OrderItems:     req.OrderItems,
		ItemsPrice:     req.ItemsPrice,
		DeliveryCharge: req.DeliveryCharge,
		TotalPrice:     req.TotalPrice,
		UserID:         userID,
		PaymentMethod:  models.PaymentMethodCOD,
		PaidAt:         time.Now(),
	}
	if err := app.db.InsertOrder(r.Context(), &order); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusCreated, envelope{
		"success": true,
		"message": "Order Placed Successfully via Cash On Delivery",
	})
}

func (app *application) newOrderOnline(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if _, err := app.currentUserID(r); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	// Stage validation up front so the gateway order is only created for a
	// payload that will insert cleanly after verification.
	staged := models.Order{
		ShippingInfo:   req.ShippingInfo,
		OrderItems:     req.OrderItems,
		ItemsPrice:     req.ItemsPrice,
		DeliveryCharge: req.DeliveryCharge,
		TotalPrice:     req.TotalPrice,
		PaymentMethod:  models.PaymentMethodOnline,
	}
	if err := staged.Validate(); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	gatewayOrder, err := app.gateway.CreateOrder(r.Context(), smallestUnit(req.TotalPrice), "INR")
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusCreated, envelope{
		"success":      true,
		"order":        gatewayOrder,
		"orderOptions": req,
		"key":          app.gateway.KeyID(),
	})
}

func (app *application) paymentVerification(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PaymentID    string       `json:"razorpay_payment_id"`
		OrderID      string       `json:"razorpay_order_id"`
		Signature    string       `json:"razorpay_signature"`
		OrderOptions orderRequest `json:"orderOptions"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	userID, err := app.currentUserID(r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.gateway.VerifySignature(input.OrderID, input.PaymentID, input.Signature); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	pay := models.Payment{
		GatewayOrderID:   input.OrderID,
		GatewayPaymentID: input.PaymentID,
		Signature:        input.Signature,
	}
	if err := app.db.InsertPayment(r.Context(), &pay); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	order := models.Order{
		ShippingInfo:   input.OrderOptions.ShippingInfo,
		OrderItems:     input.OrderOptions.OrderItems,
		ItemsPrice:     input.OrderOptions.ItemsPrice,
		DeliveryCharge: input.OrderOptions.DeliveryCharge,
		TotalPrice:     input.OrderOptions.TotalPrice,
		UserID:         userID,
		PaymentMethod:  models.PaymentMethodOnline,
		PaymentInfo:    pay.ID,
		PaidAt:         time.Now(),
	}
	if err := app.db.InsertOrder(r.Context(), &order); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusCreated, envelope{
		"success": true,
		"message": fmt.Sprintf("Order Placed Successfully. Payment ID: %s", pay.ID.Hex()),
	})
}

func (app *application) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	order, err := app.db.GetOrder(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "order": order})
}

func (app *application) myOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := app.currentUserID(r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	orders, err := app.db.GetOrdersByUser(r.Context(), userID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "orders": orders})
}

func (app *application) adminOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := app.db.GetAllOrders(r.Context())
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	var totalAmount float64
	for _, order := range orders {
		totalAmount += order.TotalPrice
	}

	app.writeJSON(w, http.StatusOK, envelope{
		"success":     true,
		"totalAmount": totalAmount,
		"orders":      orders,
	})
}

func (app *application) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	order, err := app.db.UpdateOrderStatus(r.Context(), id, input.Status)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true, "order": order})
}

func (app *application) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if err := app.db.DeleteOrder(r.Context(), id); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"success": true})
}
