package httpx

import (
	"log/slog"
	"net/http"

	"github.com/autobmg/processdocs/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Pipeline     *service.PipelineService
	MaxBatchSize int
	Gate         GateCredentials
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router. All /api routes sit
// behind the basic-auth gate; /healthz stays open for probes.
func NewRouter(services RouterServices) http.Handler {
	if services.Pipeline == nil {
		panic("httpx.NewRouter: Pipeline service is required") //nolint:forbidigo // Fail fast during server setup.
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	batchHandlers := &BatchHandlers{
		Svc:          services.Pipeline,
		MaxBatchSize: services.MaxBatchSize,
		Logger:       logger,
	}

	gate := Gate(services.Gate)
	mux.Handle("POST /api/v1/batches", gate(http.HandlerFunc(batchHandlers.Submit)))
	mux.Handle("GET /api/v1/batches/{id}", gate(http.HandlerFunc(batchHandlers.GetStatus)))
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}
