package router

import (
	"net/http"

	"github.com/GustavoCaso/spadesk/internal/config"
	"github.com/GustavoCaso/spadesk/internal/logger"
	"github.com/GustavoCaso/spadesk/internal/metrics"
	"github.com/GustavoCaso/spadesk/internal/resource"
	"github.com/GustavoCaso/spadesk/internal/storage"
)

type router struct {
	conf      *config.Config
	storage   storage.Storage
	logger    *logger.Logger
	templates *templates
	resources []resource.Resource
	metrics   *metrics.Metrics
	limiter   *clientLimiter
}

func New(conf *config.Config, s storage.Storage, logger *logger.Logger) (http.Handler, *router) {
	router := &router{
		conf:      conf,
		storage:   s,
		logger:    logger,
		templates: parseTemplates(embeddedFS(), logger),
		resources: resource.All(s, conf.Location()),
		metrics:   metrics.New(),
	}

	if conf.Server.RateLimit > 0 {
		router.limiter = newClientLimiter(conf.Server.RateLimit, conf.Server.RateBurst)
	}

	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", router.homeHandler)
	mux.HandleFunc("GET /{entity}", router.listingHandler)

	// JSON API
	registerAPI(mux, router, storage.CategoriesEntity, s.Categories())
	registerAPI(mux, router, storage.SubCategoriesEntity, s.SubCategories())
	registerAPI(mux, router, storage.PaymentModesEntity, s.PaymentModes())
	registerAPI(mux, router, storage.MeasurementUnitsEntity, s.MeasurementUnits())
	registerAPI(mux, router, storage.GiftCardsEntity, s.GiftCards())
	registerAPI(mux, router, storage.InventoryEntity, s.Inventory())

	mux.Handle("GET /metrics", router.metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	var handler http.Handler = router.metrics.Instrument(mux)
	if router.limiter != nil {
		handler = rateLimitMiddleware(router.limiter, handler)
	}
	handler = xFrameDenyHeaderMiddleware(handler)
	handler = loggingMiddleware(logger, handler)
	handler = requestIDMiddleware(handler)

	return handler, router
}
