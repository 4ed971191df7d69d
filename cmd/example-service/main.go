// The example service from the package documentation: a root
// documentation view, an echoing /second/ resource, and a nested
// /second/{one}/{two}/ resource. Run it, then explore it with the
// client package or a browser.
package main

import (
	"net/http"
	"strconv"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	microservices "github.com/microservice-s/microservices-2"
	"github.com/microservice-s/microservices-2/internal/config"
	"github.com/microservice-s/microservices-2/logging"
)

func listSecond(w http.ResponseWriter, req *http.Request) {
	w.Header().Set(microservices.CONTENT_TYPE, microservices.JSON_TYPE)
	microservices.WriteJSON([]string{"second"}, w)
}

func echo(w http.ResponseWriter, req *http.Request) {
	var v interface{}
	microservices.ReadJSON(&v, req)
	w.Header().Set(microservices.CONTENT_TYPE, microservices.JSON_TYPE)
	microservices.WriteJSON(v, w)
}

func nested(w http.ResponseWriter, req *http.Request) {
	vars := microservices.Vars(req)
	one := vars["one"]
	two, err := strconv.Atoi(vars["two"])
	if err != nil {
		// unreachable, the route constrains {two} to digits
		panic(err)
	}
	response := []interface{}{one, two}
	if req.Method == microservices.POST {
		var data interface{}
		microservices.ReadJSON(&data, req)
		response = append(response, data)
	}
	w.Header().Set(microservices.CONTENT_TYPE, microservices.JSON_TYPE)
	microservices.WriteJSON(map[string]interface{}{"response": response}, w)
}

func newHandler(logger *zap.Logger) *microservices.Handler {
	h := microservices.NewHandler(microservices.WithLogger(logger))

	h.Path("/").
		Resource(&microservices.Resource{
			Info: microservices.ResourceInfo{Name: "API root"},
			URL:  microservices.DerivedURL(),
		}).
		Get("Get the list of resources", h.SelfIntroHandlerFunc)

	second := h.Path("/second/").
		Resource(&microservices.Resource{
			Info: microservices.ResourceInfo{
				Name: "Second resource",
				Methods: map[string]string{
					microservices.GET:  "Get the second resource",
					microservices.POST: "Echo the posted document",
				},
			},
			URL: microservices.DerivedURL(),
		})
	second.
		Get("Get the second resource", listSecond).
		Post("Echo the posted document", echo)

	second.SubPath("{one}/{two:[0-9]+}/").
		Resource(&microservices.Resource{
			Info:   microservices.ResourceInfo{Name: "Nested resource"},
			URL:    microservices.DerivedURL(),
			Params: map[string]string{"one": "one", "two": "2"},
		}).
		Get("Get the nested resource", nested).
		Post("Post to the nested resource", nested)

	return h
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	h := newHandler(logger)
	reg := prometheus.NewRegistry()
	metrics := microservices.NewMetrics(reg)
	h.Use(metrics.Middleware)

	var wrapped http.Handler = microservices.ErrorHandler(h)
	if cfg.MemcachedAddr != "" {
		cache := microservices.NewResponseCache(
			memcache.New(cfg.MemcachedAddr),
			int32(cfg.CacheTTL), logger)
		wrapped = cache.Middleware(wrapped)
	}
	wrapped = handlers.CompressHandler(wrapped)

	root := http.NewServeMux()
	root.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	root.Handle("/", wrapped)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, root); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
