package main

import (
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/pkg/geocoding"
)

type application struct {
	cfg         *config.Config
	auth        service.AuthService
	authMw      *middleware.AuthMiddleware
	sessions    handlers.SessionResolver
	catalog     service.CatalogService
	checkout    service.CheckoutService
	orders      service.OrderService
	geocoder    geocoding.Geocoder
	objects     repository.ObjectRepository
	healthCheck http.Handler
}

func (app *application) routes() *http.ServeMux {

	authHandler := handlers.NewAuthHandler(app.auth)
	catalogHandler := handlers.NewCatalogHandler(app.catalog)
	cartHandler := handlers.NewCartHandler(app.catalog)
	profileHandler := handlers.NewProfileHandler(app.geocoder, app.objects, &app.cfg.Storage)
	geocodeHandler := handlers.NewGeocodeHandler(app.geocoder)
	objectHandler := handlers.NewObjectHandler(app.objects)
	checkoutHandler := handlers.NewCheckoutHandler(app.checkout)
	orderHandler := handlers.NewOrderHandler(app.orders)

	withSession := handlers.WithSession(app.sessions)

	// store routes work for guests; a bearer token, when sent, binds the session
	store := func(h http.HandlerFunc) http.HandlerFunc {
		return app.authMw.Optional(withSession(h))
	}
	signedIn := func(h http.HandlerFunc) http.HandlerFunc {
		return app.authMw.Authenticate(withSession(h))
	}

	routerMux := http.NewServeMux()

	routerMux.HandleFunc("POST /api/v1/auth/signup", store(authHandler.SignUp()))
	routerMux.HandleFunc("POST /api/v1/auth/signin", store(authHandler.SignIn()))
	routerMux.HandleFunc("POST /api/v1/auth/signout", signedIn(authHandler.SignOut()))
	routerMux.HandleFunc("POST /api/v1/auth/password", signedIn(authHandler.ChangePassword()))

	routerMux.HandleFunc("GET /api/v1/catalog/products", catalogHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/catalog/products/{id}", catalogHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/catalog/categories", catalogHandler.ListCategories())

	routerMux.HandleFunc("GET /api/v1/cart", store(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/items", store(cartHandler.AddItem()))
	routerMux.HandleFunc("PATCH /api/v1/cart/items/{id}", store(cartHandler.UpdateItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{id}", store(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart", store(cartHandler.ClearCart()))
	routerMux.HandleFunc("GET /api/v1/cart/events", store(cartHandler.Events()))

	routerMux.HandleFunc("GET /api/v1/profile", signedIn(profileHandler.GetProfile()))
	routerMux.HandleFunc("PATCH /api/v1/profile", signedIn(profileHandler.UpdateProfile()))
	routerMux.HandleFunc("PUT /api/v1/profile/photo", signedIn(profileHandler.UploadPhoto()))
	routerMux.HandleFunc("POST /api/v1/profile/addresses", signedIn(profileHandler.AddAddress()))
	routerMux.HandleFunc("POST /api/v1/profile/addresses/locate", signedIn(profileHandler.LocateAddress()))
	routerMux.HandleFunc("PUT /api/v1/profile/addresses/selected", signedIn(profileHandler.SelectAddress()))

	routerMux.HandleFunc("GET /api/v1/geocode/reverse", geocodeHandler.Reverse())

	routerMux.HandleFunc("POST /api/v1/checkout", signedIn(checkoutHandler.Begin()))
	routerMux.HandleFunc("GET /api/v1/checkout", store(checkoutHandler.GetCheckout()))
	routerMux.HandleFunc("POST /api/v1/checkout/confirm", signedIn(checkoutHandler.Confirm()))
	routerMux.HandleFunc("POST /api/v1/checkout/retry", signedIn(checkoutHandler.Retry()))

	routerMux.HandleFunc("GET /api/v1/orders", signedIn(orderHandler.ListOrders()))

	routerMux.HandleFunc("GET /api/v1/objects/{path...}", objectHandler.Download())

	routerMux.Handle("GET /health", app.healthCheck)
	routerMux.Handle("GET /metrics", metrics.Handler())

	return routerMux
}
