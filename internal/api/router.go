package api

import (
	"net/http"
	"net/url"
	"slices"

	_ "github.com/AlexZinkM/restaking-dashboard/docs"
	"github.com/AlexZinkM/restaking-dashboard/internal/handler"
	"github.com/AlexZinkM/restaking-dashboard/internal/logger"

	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers groups the HTTP handlers served by the router
type Handlers struct {
	Restaking *handler.RestakingHandler
	Wallet    *handler.WalletHandler
	Stream    *handler.StreamHandler
}

// SetupRouter sets up router with handlers
func SetupRouter(h Handlers, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)
	mux.Handle("/metrics", promhttp.Handler())

	// Pages
	mux.HandleFunc("/dashboard", h.Restaking.Dashboard)
	mux.HandleFunc("/balances", h.Restaking.Balances)
	mux.HandleFunc("/staking", h.Restaking.Staking)
	mux.HandleFunc("/restaking", h.Restaking.Restaking)
	mux.HandleFunc("/ws/dashboard", h.Stream.Dashboard)

	// Transactions
	mux.HandleFunc("/staking/stake", h.Restaking.Stake)
	mux.HandleFunc("/staking/unstake", h.Restaking.Unstake)
	mux.HandleFunc("/staking/initialize", h.Restaking.Initialize)
	mux.HandleFunc("/restaking/restake", h.Restaking.Restake)
	mux.HandleFunc("/restaking/unrestake", h.Restaking.Unrestake)

	mux.HandleFunc("/protocol/status", h.Restaking.Status)
	mux.HandleFunc("/health", h.Restaking.Health)

	// Wallet
	mux.HandleFunc("/wallet", h.Wallet.State)
	mux.HandleFunc("/wallet/connect", h.Wallet.Connect)
	mux.HandleFunc("/wallet/disconnect", h.Wallet.Disconnect)
	mux.HandleFunc("/wallet/generate", h.Wallet.Generate)
	mux.HandleFunc("/wallet/qr", h.Wallet.QR)

	withCORS := cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	return logger.Middleware(withCORS(mux))
}

// CheckOrigin returns a websocket origin check matching the CORS allow list.
// A "*" entry accepts any origin.
func CheckOrigin(allowedOrigins []string) func(r *http.Request) bool {
	if slices.Contains(allowedOrigins, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if slices.Contains(allowedOrigins, origin) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}
