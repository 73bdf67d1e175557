package routes

import (
	"net/http"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/handlers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/handlers/admin"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/middlewares"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
	Catalog *handlers.CatalogHandler
	Orders  *handlers.OrderHandler
	Payment *handlers.PaymentHandler
	Search  *handlers.SearchHandler
	Upload  *handlers.UploadHandler
	Admin   *admin.AdminHandler
}

func NewRouter(h Handlers, auth middlewares.Authenticator, rnd *render.Render, log *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.LoggingMiddleware(log))
	router.Use(middlewares.RecoverMiddleware(rnd, log))

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rnd.JSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rnd.JSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "Method Not Allowed"})
	})

	router.HandleFunc("/", handlers.Health(rnd)).Methods("GET")

	// public
	router.HandleFunc("/register", h.Auth.Register).Methods("POST")
	router.HandleFunc("/login", h.Auth.Login).Methods("POST")
	router.HandleFunc("/token", h.Auth.Token).Methods("POST")
	router.HandleFunc("/verify-email", h.Auth.VerifyEmail).Methods("GET")
	router.HandleFunc("/forgot-password", h.Auth.ForgotPassword).Methods("POST")
	router.HandleFunc("/reset-password", h.Auth.ResetPassword).Methods("POST")

	router.HandleFunc("/brands", h.Catalog.ListBrands).Methods("GET")
	router.HandleFunc("/products", h.Catalog.ListProducts).Methods("GET")
	router.HandleFunc("/search", h.Search.Search).Methods("GET")

	router.HandleFunc("/ssl-success", h.Payment.SSLSuccess).Methods("POST")
	router.HandleFunc("/ssl-fail", h.Payment.SSLFail).Methods("POST")
	router.HandleFunc("/ssl-cancel", h.Payment.SSLCancel).Methods("POST")

	requireAuth := middlewares.AuthMiddleware(auth, rnd, log)
	optionalAuth := middlewares.OptionalAuthMiddleware(auth)
	artisanOnly := middlewares.RequireRole(rnd, log, models.RoleArtisan, models.RoleAdmin)
	adminOnly := middlewares.RequireRole(rnd, log, models.RoleAdmin)

	optional := func(f http.HandlerFunc) http.Handler { return optionalAuth(f) }
	authed := func(f http.HandlerFunc) http.Handler { return requireAuth(f) }
	artisan := func(f http.HandlerFunc) http.Handler { return requireAuth(artisanOnly(f)) }
	adminRoute := func(f http.HandlerFunc) http.Handler { return requireAuth(adminOnly(f)) }

	router.Handle("/brands/me", authed(h.Catalog.MyBrand)).Methods("GET")
	router.Handle("/brands/me", authed(h.Catalog.UpdateMyBrand)).Methods("PATCH")
	router.Handle("/products/me", authed(h.Catalog.MyProducts)).Methods("GET")
	router.Handle("/orders/me", authed(h.Orders.MyOrders)).Methods("GET")
	router.Handle("/orders/me/details", authed(h.Orders.MyOrderDetails)).Methods("GET")
	router.Handle("/orders/artisan", artisan(h.Orders.ArtisanOrders)).Methods("GET")
	router.Handle("/orders/artisan/{order_id:[0-9]+}/details", artisan(h.Orders.ArtisanOrderDetails)).Methods("GET")
	router.Handle("/orders/artisan/{order_id:[0-9]+}/status", artisan(h.Orders.ArtisanUpdateStatus)).Methods("PUT")

	router.Handle("/brands/{brand_id:[0-9]+}", optional(h.Catalog.GetBrand)).Methods("GET")
	router.Handle("/products/{product_id:[0-9]+}", optional(h.Catalog.GetProduct)).Methods("GET")

	router.Handle("/profile", authed(h.Profile.GetProfile)).Methods("GET")
	router.Handle("/profile", authed(h.Profile.UpdateProfile)).Methods("PATCH")
	router.Handle("/become-artisan", authed(h.Profile.BecomeArtisan)).Methods("PUT")

	router.Handle("/brands", authed(h.Catalog.CreateBrand)).Methods("POST")
	router.Handle("/products", artisan(h.Catalog.CreateProduct)).Methods("POST")
	router.Handle("/products/{product_id:[0-9]+}", authed(h.Catalog.UpdateProduct)).Methods("PATCH", "PUT")
	router.Handle("/products/{product_id:[0-9]+}", authed(h.Catalog.DeleteProduct)).Methods("DELETE")

	router.Handle("/orders", authed(h.Orders.CreateOrder)).Methods("POST")
	router.Handle("/orders/{order_id:[0-9]+}/bill", authed(h.Orders.Bill)).Methods("GET")
	router.Handle("/orders/{order_id:[0-9]+}/details", authed(h.Orders.Details)).Methods("GET")
	router.Handle("/orders/{order_id:[0-9]+}", authed(h.Orders.DeleteOrder)).Methods("DELETE")

	router.Handle("/initiate-payment", authed(h.Payment.InitiatePayment)).Methods("POST")
	router.Handle("/paybills", authed(h.Payment.PayBill)).Methods("POST")
	router.Handle("/paybill", authed(h.Payment.PayBill)).Methods("POST")

	router.Handle("/upload/{type}", authed(h.Upload.Upload)).Methods("POST", "PATCH")
	router.Handle("/upload/{type}/{file_name}", artisan(h.Upload.Delete)).Methods("DELETE")

	router.Handle("/admin/dashboard", adminRoute(h.Admin.Dashboard)).Methods("GET")
	router.Handle("/admin/users", adminRoute(h.Admin.ListUsers)).Methods("GET")
	router.Handle("/admin/users/{user_id:[0-9]+}", adminRoute(h.Admin.UpdateUser)).Methods("PUT")
	router.Handle("/admin/users/promote/{user_id:[0-9]+}", adminRoute(h.Admin.PromoteUser)).Methods("PUT")
	router.Handle("/admin/users/{user_id:[0-9]+}", adminRoute(h.Admin.DeleteUser)).Methods("DELETE")
	router.Handle("/admin/products", adminRoute(h.Admin.ListProducts)).Methods("GET")
	router.Handle("/admin/products/{product_id:[0-9]+}", adminRoute(h.Admin.UpdateProduct)).Methods("PUT")
	router.Handle("/admin/products/{product_id:[0-9]+}", adminRoute(h.Admin.DeleteProduct)).Methods("DELETE")
	router.Handle("/admin/orders", adminRoute(h.Admin.ListOrders)).Methods("GET")
	router.Handle("/admin/orders/{order_id:[0-9]+}", adminRoute(h.Admin.UpdateOrderStatus)).Methods("PUT")
	router.Handle("/admin/orders/{order_id:[0-9]+}", adminRoute(h.Admin.DeleteOrder)).Methods("DELETE")

	return router
}
