package api

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/randytsao24/letsgobiking/internal/api/handlers"
	"github.com/randytsao24/letsgobiking/internal/config"
)

const defaultRequestTimeout = 30 * time.Second

// NewRouter creates and configures the HTTP router with all routes and middleware
func NewRouter(
	cfg *config.Config,
	itinerary handlers.ItineraryComputer,
	search handlers.AddressSearcher,
	webFS fs.FS,
) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	rootHandler := handlers.NewRootHandler()
	itineraryHandler := handlers.NewItineraryHandler(itinerary, search)

	// Serve frontend (if provided)
	if webFS != nil {
		mux.Handle("GET /", http.FileServer(http.FS(webFS)))
	} else {
		mux.HandleFunc("GET /{$}", rootHandler.Index)
		mux.HandleFunc("/", rootHandler.NotFound)
	}

	// Core routes
	mux.HandleFunc("GET /api", rootHandler.Index)
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Itinerary routes
	mux.HandleFunc("GET /itinerary/compute", itineraryHandler.Compute)
	mux.HandleFunc("GET /itinerary/suggest", itineraryHandler.Suggest)
	mux.HandleFunc("GET /itinerary/ping", itineraryHandler.Ping)

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Apply middleware stack
	handler := Chain(mux,
		RequestID,
		Logging,
		Recovery,
		CORS(origins),
		Timeout(timeout),
	)

	return handler
}
