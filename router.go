package microservices

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Vars wraps around gorilla/mux.Vars . Use it to get variable value
// defined inside template string.
func Vars(req *http.Request) map[string]string {
	return mux.Vars(req)
}

// Handler fits the http.Handler interface. It owns the underlying
// mux router and the resource metadata collected at registration
// time.
type Handler struct {
	router *mux.Router
	logger *zap.Logger
	routes []*Router
}

// HandlerOption configures a Handler at construction time.
type HandlerOption func(*Handler)

// WithLogger sets the logger handle. The default is a nop logger;
// there is no package-level logger to configure.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(t *Handler) {
		t.logger = logger
	}
}

// NewHandler returns a new Handler.
func NewHandler(opts ...HandlerOption) *Handler {
	t := &Handler{
		router: mux.NewRouter(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	t.router.ServeHTTP(w, req)
}

// Use appends middleware to the underlying mux router. Middleware
// registered this way runs after route matching, so mux.CurrentRoute
// is available inside it.
func (t *Handler) Use(middleware ...mux.MiddlewareFunc) {
	t.router.Use(middleware...)
}

// Router handles different request methods under the same path
// template.
type Router struct {
	root     *Handler
	path     string
	router   *mux.Router
	methods  map[string]string
	resource *Resource
	children []*Router
}

// Path returns a pointer to a new Router to handle requests whose
// path matches the given template string. Registration is delegated
// to mux as-is; malformed templates and duplicate routes fail the
// way mux fails.
func (t *Handler) Path(tpl string) *Router {
	router := &Router{
		root:    t,
		path:    tpl,
		router:  t.router.Path(tpl).Subrouter(),
		methods: make(map[string]string),
	}
	router.addMethod(OPTIONS, OPTIONS_DESC, router.options)
	t.routes = append(t.routes, router)
	return router
}

// SubPath returns a pointer to a new Router to handle a sub path
// under the original Router.
func (t *Router) SubPath(tpl string) *Router {
	path := t.path + tpl
	router := &Router{
		root:    t.root,
		path:    path,
		router:  t.root.router.Path(path).Subrouter(),
		methods: make(map[string]string),
	}
	router.addMethod(OPTIONS, OPTIONS_DESC, router.options)
	t.children = append(t.children, router)
	return router
}

// Resource attaches documentation metadata to the Router's path.
// The metadata is never consulted during dispatch; it only feeds the
// documentation view. Calling Resource again replaces the previous
// record.
func (t *Router) Resource(resource *Resource) *Router {
	t.resource = resource
	return t
}

func (t *Router) addMethod(method string, desc string, f http.HandlerFunc) {
	t.methods[method] = desc
	t.router.Methods(method).HandlerFunc(f)
	t.root.logger.Debug("route registered",
		zap.String("path", t.path),
		zap.String("method", method),
	)
}

func (t *Router) options(w http.ResponseWriter, req *http.Request) {
	keys := make([]string, 0, len(t.methods))
	for key := range t.methods {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	w.Header().Set("Allow", strings.Join(keys, ","))
	w.WriteHeader(http.StatusOK)
}

// Get binds f to the GET method of the Router's path with description.
func (t *Router) Get(desc string, f http.HandlerFunc) *Router {
	t.addMethod(GET, desc, f)
	return t
}

// Post binds f to the POST method of the Router's path with description.
func (t *Router) Post(desc string, f http.HandlerFunc) *Router {
	t.addMethod(POST, desc, f)
	return t
}

// Put binds f to the PUT method of the Router's path with description.
func (t *Router) Put(desc string, f http.HandlerFunc) *Router {
	t.addMethod(PUT, desc, f)
	return t
}

// Patch binds f to the PATCH method of the Router's path with description.
func (t *Router) Patch(desc string, f http.HandlerFunc) *Router {
	t.addMethod(PATCH, desc, f)
	return t
}

// Delete binds f to the DELETE method of the Router's path with description.
func (t *Router) Delete(desc string, f http.HandlerFunc) *Router {
	t.addMethod(DELETE, desc, f)
	return t
}
