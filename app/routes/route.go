package routes

import (
	"log"
	"net/http"
	"net/url"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/Rakhulsr/go-foodie/app/configs"
	"github.com/Rakhulsr/go-foodie/app/events"
	"github.com/Rakhulsr/go-foodie/app/handlers"
	"github.com/Rakhulsr/go-foodie/app/handlers/admin"
	"github.com/Rakhulsr/go-foodie/app/helpers"
	"github.com/Rakhulsr/go-foodie/app/middlewares"
	"github.com/Rakhulsr/go-foodie/app/repositories"
	"github.com/Rakhulsr/go-foodie/app/services"
	"github.com/Rakhulsr/go-foodie/app/utils/renderer"
	"github.com/Rakhulsr/go-foodie/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/unrolled/render"
	"gorm.io/gorm"
)

// Options carries the collaborators that are built outside the router. Nil
// fields fall back to what the environment configures.
type Options struct {
	Gateway      services.Gateway
	Verifier     services.TransactionVerifier
	Publisher    events.Publisher
	SessionStore sessions.SessionStore
	TemplatesDir string
}

func NewRouter(db *gorm.DB, env configs.ENV, opts Options) http.Handler {
	if opts.TemplatesDir == "" {
		opts.TemplatesDir = "templates"
	}
	rnd := renderer.New(opts.TemplatesDir, env.AppEnv != "production")

	if opts.SessionStore == nil {
		opts.SessionStore = newSessionStore(env)
	}
	if opts.Gateway == nil {
		opts.Gateway, opts.Verifier = NewGateway(env)
	}

	categoryRepo := repositories.NewCategoryRepository(db)
	foodItemRepo := repositories.NewFoodItemRepository(db)
	cartItemRepo := repositories.NewCartItemRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	orderItemRepo := repositories.NewOrderItemRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	userRepo := repositories.NewUserRepository(db)

	authSvc := services.NewAuthService(userRepo, env.JWTSecret, 0)
	catalogSvc := services.NewCatalogService(db, categoryRepo, foodItemRepo)
	reviewSvc := services.NewReviewService(reviewRepo, foodItemRepo)
	cartSvc := services.NewCartService(db, cartItemRepo, foodItemRepo)
	orderSvc := services.NewOrderService(db, orderRepo, orderItemRepo, cartItemRepo, foodItemRepo, opts.Publisher)
	paymentSvc := services.NewPaymentService(db, orderSvc, paymentRepo, opts.Gateway, opts.Verifier, env.PaymentCurrency)

	authMw := middlewares.NewAuthMiddleware(opts.SessionStore, authSvc, rnd)
	authHandler := handlers.NewAuthHandler(authSvc, opts.SessionStore, rnd)
	catalogHandler := handlers.NewCatalogHandler(catalogSvc, reviewSvc, rnd)
	cartHandler := handlers.NewCartHandler(cartSvc, rnd)
	orderHandler := handlers.NewOrderHandler(orderSvc, rnd)
	paymentHandler := handlers.NewPaymentHandler(paymentSvc, rnd, env.AppURL, env.StorefrontOrder)
	adminHandler := admin.NewAdminHandler(orderSvc, catalogSvc, rnd)

	router := mux.NewRouter()
	router.Use(middlewares.RequestLogger, middlewares.Prometheus)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		helpers.RespondError(rnd, w, r, apperr.NotFound("no route for %s", r.URL.Path))
	})

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		rnd.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// gateway callbacks: no session, no CSRF
	payment := router.PathPrefix("/payment").Subrouter()
	for _, p := range []string{"/success/", "/success"} {
		payment.HandleFunc(p, paymentHandler.Success).Methods("GET", "POST")
	}
	for _, p := range []string{"/fail/", "/fail"} {
		payment.HandleFunc(p, paymentHandler.Fail).Methods("GET", "POST")
	}
	for _, p := range []string{"/cancel/", "/cancel"} {
		payment.HandleFunc(p, paymentHandler.Cancel).Methods("GET", "POST")
	}
	payment.HandleFunc("/midtrans/notification", paymentHandler.MidtransNotification).Methods("POST")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(authMw.Identify)

	api.HandleFunc("/categories", catalogHandler.ListCategories).Methods("GET")
	api.HandleFunc("/categories/{slug}/food-items", catalogHandler.FoodItemsByCategory).Methods("GET")
	api.HandleFunc("/food-items", catalogHandler.ListFoodItems).Methods("GET")
	api.HandleFunc("/food-items/{id}", catalogHandler.GetFoodItem).Methods("GET")
	api.HandleFunc("/food-items/{id}/reviews", catalogHandler.ListReviews).Methods("GET")
	api.HandleFunc("/specials", catalogHandler.Specials).Methods("GET")
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	csrfMw := newCSRF(env, rnd)

	protected := api.NewRoute().Subrouter()
	protected.Use(authMw.RequireUser, csrfMw)
	protected.HandleFunc("/csrf-token", func(w http.ResponseWriter, r *http.Request) {
		rnd.JSON(w, http.StatusOK, map[string]string{"token": csrf.Token(r)})
	}).Methods("GET")
	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	protected.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	protected.HandleFunc("/cart", cartHandler.GetCart).Methods("GET")
	protected.HandleFunc("/cart", cartHandler.AddToCart).Methods("POST")
	protected.HandleFunc("/cart/count", cartHandler.CartCount).Methods("GET")
	protected.HandleFunc("/cart/{id}", cartHandler.UpdateCartItem).Methods("PUT")
	protected.HandleFunc("/cart/{id}", cartHandler.RemoveCartItem).Methods("DELETE")
	protected.HandleFunc("/checkout", orderHandler.Checkout).Methods("POST")
	protected.HandleFunc("/orders", orderHandler.ListOrders).Methods("GET")
	protected.HandleFunc("/orders", orderHandler.CreateOrder).Methods("POST")
	protected.HandleFunc("/orders/{id}", orderHandler.GetOrder).Methods("GET")
	protected.HandleFunc("/orders/{id}", orderHandler.DeleteOrder).Methods("DELETE")
	protected.HandleFunc("/food-items/{id}/reviews", catalogHandler.CreateReview).Methods("POST")
	protected.HandleFunc("/payment/create", paymentHandler.CreatePayment).Methods("POST")

	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(authMw.RequireAdmin, csrfMw)
	adminRouter.HandleFunc("/orders", adminHandler.ListOrders).Methods("GET")
	adminRouter.HandleFunc("/orders/{id}", adminHandler.GetOrder).Methods("GET")
	adminRouter.HandleFunc("/orders/{id}", adminHandler.UpdateOrder).Methods("PUT", "PATCH")
	adminRouter.HandleFunc("/categories", adminHandler.CreateCategory).Methods("POST")
	adminRouter.HandleFunc("/categories/{id}", adminHandler.UpdateCategory).Methods("PUT")
	adminRouter.HandleFunc("/categories/{id}", adminHandler.DeleteCategory).Methods("DELETE")
	adminRouter.HandleFunc("/food-items", adminHandler.CreateFoodItem).Methods("POST")
	adminRouter.HandleFunc("/food-items/{id}", adminHandler.UpdateFoodItem).Methods("PUT")
	adminRouter.HandleFunc("/food-items/{id}", adminHandler.DeleteFoodItem).Methods("DELETE")

	return cors.New(cors.Options{
		AllowedOrigins:   env.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
	}).Handler(router)
}

// NewGateway picks the payment gateway named by PAYMENT_GATEWAY. Only Midtrans
// offers server-to-server verification.
func NewGateway(env configs.ENV) (services.Gateway, services.TransactionVerifier) {
	switch env.PaymentGateway {
	case services.GatewayMidtrans:
		gw := services.NewMidtransGatewayFromEnv(env)
		return gw, gw
	default:
		if env.PaymentGateway != services.GatewaySSLCommerz {
			log.Printf("NewGateway: unknown PAYMENT_GATEWAY %q, using %s", env.PaymentGateway, services.GatewaySSLCommerz)
		}
		return services.NewSSLCommerzGatewayFromEnv(env), nil
	}
}

func newSessionStore(env configs.ENV) sessions.SessionStore {
	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		log.Fatalf("Session keys: %v (run `generate-keys`)", err)
	}
	return sessions.NewCookieSessionStore(env.AppEnv == "production", keys.AuthKey, keys.EncKey)
}

// newCSRF protects cookie-authenticated requests. Bearer-token clients carry
// no ambient credentials and are exempt.
func newCSRF(env configs.ENV, rnd *render.Render) mux.MiddlewareFunc {
	keys, err := configs.LoadSessionKeys(env)
	if !env.CSRFEnabled || err != nil {
		if env.CSRFEnabled {
			log.Printf("newCSRF: disabled, no session keys: %v", err)
		}
		return func(next http.Handler) http.Handler { return next }
	}

	protect := csrf.Protect(
		csrfKey(keys.AuthKey),
		csrf.Secure(env.AppEnv == "production"),
		csrf.Path("/"),
		csrf.TrustedOrigins(originHosts(env.AllowedOrigins)),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			helpers.RespondError(rnd, w, r, apperr.Forbidden("CSRF token invalid: %v", csrf.FailureReason(r)))
		})),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if middlewares.IsBearerRequest(r) {
				r = csrf.UnsafeSkipCheck(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

func csrfKey(authKey []byte) []byte {
	if len(authKey) >= 32 {
		return authKey[:32]
	}
	key := make([]byte, 32)
	copy(key, authKey)
	return key
}

func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}
