package api

import (
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jacentio/bookshelf/book"
)

// Resource paths of the catalog.
const (
	PathBooks = "/books"
	PathBook  = "/books/{isbn}"
)

// Route binds a method and path pattern to a handler. Pattern segments of the
// form {name} capture path parameters.
type Route struct {
	Method  string
	Pattern string
	Handler HandlerFunc

	// Validate runs the book schema on the body before Handler is invoked.
	Validate bool
}

// Routes returns the catalog route table.
func Routes(s Store, logger *slog.Logger) []Route {
	return []Route{
		{Method: http.MethodGet, Pattern: PathBooks, Handler: List(s, logger)},
		{Method: http.MethodGet, Pattern: PathBook, Handler: Get(s, logger)},
		{Method: http.MethodPut, Pattern: PathBook, Handler: Create(s, logger), Validate: true},
		{Method: http.MethodDelete, Pattern: PathBook, Handler: Delete(s, logger)},
		{Method: http.MethodOptions, Pattern: PathBook, Handler: Preflight()},
	}
}

// methods answered with 405 on a known path that does not serve them.
var methods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodConnect,
	http.MethodTrace,
}

// Router serves a route table on a gin engine.
type Router struct {
	engine *gin.Engine
	routes []Route
	logger *slog.Logger
}

// NewRouter creates a Router serving the catalog routes backed by s.
func NewRouter(s Store, logger *slog.Logger) *Router {
	logger = loggerOrDefault(logger)
	return NewRouterWithRoutes(Routes(s, logger), logger)
}

// NewRouterWithRoutes creates a Router over an explicit route table.
// Unknown paths answer 404 RouteNotFound; known paths answer 405
// MethodNotAllowed with an Allow header for methods they do not serve.
func NewRouterWithRoutes(routes []Route, logger *slog.Logger) *Router {
	r := &Router{
		engine: gin.New(),
		routes: routes,
		logger: loggerOrDefault(logger),
	}

	e := r.engine
	e.HandleMethodNotAllowed = true
	e.RedirectTrailingSlash = false
	e.UseRawPath = true
	e.UnescapePathValues = true
	e.Use(gin.Recovery(), requestID(), r.accessLog())

	var paths []string
	allowed := map[string][]string{}
	for _, route := range routes {
		path := ginPath(route.Pattern)
		e.Handle(route.Method, path, r.handle(route))
		if _, ok := allowed[path]; !ok {
			paths = append(paths, path)
		}
		allowed[path] = append(allowed[path], route.Method)
	}

	for _, path := range paths {
		served := allowed[path]
		h := methodNotAllowed(served)
		for _, m := range methods {
			if !slices.Contains(served, m) {
				e.Handle(m, path, h)
			}
		}
	}

	e.NoRoute(func(c *gin.Context) {
		writeGin(c, errorResponse(http.StatusNotFound, CodeRouteNotFound, "no route for "+c.Request.URL.Path))
	})
	e.NoMethod(methodNotAllowed(nil))

	return r
}

// Routes returns the route table in registration order.
func (r *Router) Routes() []Route {
	return slices.Clone(r.routes)
}

// Engine returns the underlying gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

// handle runs route for one gin request. Bodies of validating routes are
// rejected before the handler, and so before any store access.
func (r *Router) handle(route Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			writeGin(c, badRequest("request body could not be read"))
			return
		}

		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}

		req := &Request{
			ID:     c.GetString(keyRequestID),
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Params: params,
			Body:   body,
		}

		if route.Validate {
			b, err := book.Decode(body)
			if err != nil {
				r.logger.Debug("request body rejected",
					"requestID", req.ID,
					"error", err,
				)
				writeGin(c, validationFailed(err))
				return
			}
			req.Book = &b
		}

		writeGin(c, route.Handler(c.Request.Context(), req))
	}
}

func methodNotAllowed(allowed []string) gin.HandlerFunc {
	allow := slices.Clone(allowed)
	sort.Strings(allow)
	header := strings.Join(allow, ", ")

	return func(c *gin.Context) {
		rsp := errorResponse(http.StatusMethodNotAllowed, CodeMethodNotAllowed,
			"method "+c.Request.Method+" is not allowed on "+c.Request.URL.Path)
		if header != "" {
			rsp.Headers["Allow"] = header
		}
		writeGin(c, rsp)
	}
}
