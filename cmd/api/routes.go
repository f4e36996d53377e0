package main

import (
	"net/http"

	"github.com/bmizerany/pat"
)

func (app *application) routes() http.Handler {
	mux := pat.New()

	// Identity & session
	mux.Post("/api/v1/register", http.HandlerFunc(app.register))
	mux.Post("/api/v1/login", http.HandlerFunc(app.login))
	mux.Get("/api/v1/googlelogin", http.HandlerFunc(app.googleLogin))
	mux.Get("/api/v1/login/callback", http.HandlerFunc(app.googleCallback))
	mux.Get("/api/v1/logout", http.HandlerFunc(app.logout))
	mux.Get("/api/v1/me", app.requireAuthentication(app.myProfile))
	mux.Put("/api/v1/me/update", app.requireAuthentication(app.updateProfile))
	mux.Post("/api/v1/password/forgot", http.HandlerFunc(app.forgotPassword))
	mux.Put("/api/v1/password/reset/:token", http.HandlerFunc(app.resetPassword))

	// Catalog
	mux.Get("/api/v1/products", http.HandlerFunc(app.listProducts))
	mux.Get("/api/v1/product/:id", http.HandlerFunc(app.productDetails))
	mux.Put("/api/v1/review", app.requireAuthentication(app.submitReview))
	mux.Get("/api/v1/reviews", http.HandlerFunc(app.listReviews))
	mux.Del("/api/v1/reviews", app.requireAuthentication(app.deleteReview))
	mux.Get("/api/v1/images/:id", http.HandlerFunc(app.serveImage))

	// Orders & payment
	mux.Post("/api/v1/order/new", app.requireAuthentication(app.newOrder))
	mux.Post("/api/v1/order/new/online", app.requireAuthentication(app.newOrderOnline))
	mux.Post("/api/v1/paymentverification", app.requireAuthentication(app.paymentVerification))
	mux.Get("/api/v1/orders/me", app.requireAuthentication(app.myOrders))
	mux.Get("/api/v1/order/:id", app.requireAuthentication(app.getOrder))

	// Admin
	mux.Get("/api/v1/admin/products", app.requireAdmin(app.adminProducts))
	mux.Post("/api/v1/admin/product/new", app.requireAdmin(app.createProduct))
	mux.Put("/api/v1/admin/products/:id", app.requireAdmin(app.updateProduct))
	mux.Del("/api/v1/admin/products/:id", app.requireAdmin(app.deleteProduct))
	mux.Get("/api/v1/admin/orders", app.requireAdmin(app.adminOrders))
	mux.Put("/api/v1/admin/order/:id", app.requireAdmin(app.updateOrderStatus))
	mux.Del("/api/v1/admin/order/:id", app.requireAdmin(app.deleteOrder))
	mux.Get("/api/v1/admin/users", app.requireAdmin(app.adminUsers))
	mux.Get("/api/v1/admin/users/:id", app.requireAdmin(app.adminGetUser))
	mux.Put("/api/v1/admin/users/:id", app.requireAdmin(app.adminUpdateUserRole))
	mux.Del("/api/v1/admin/users/:id", app.requireAdmin(app.adminDeleteUser))
	mux.Get("/api/v1/admin/stats", app.requireAdmin(app.adminStats))

	return app.session.LoadAndSave(app.logRequest(app.recoverPanic(mux)))
}
