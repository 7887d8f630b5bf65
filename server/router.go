package server

import (
	"net/http"
	"time"

	"VinylX/logger"
	"VinylX/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建注册了流水线指标和运行时指标的 registry
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	metrics.Register(reg)
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewRouter 注册所有路由
func NewRouter(albums *AlbumHandler, reg prometheus.Gatherer) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware, loggingMiddleware)

	router.HandleFunc("/api/search", albums.SearchHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/search/catalogue", albums.CatalogueSearchHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/albums/{mbid}", albums.GetAlbumHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/{id}", albums.GetArtistHandler).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return router
}

// 添加 CORS 中间件
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("http request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rec.status),
			logger.Duration("elapsed", time.Since(start)))
	})
}
