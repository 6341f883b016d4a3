// Package gateway : единственная точка проверки access-токенов.
// Запрос либо проходит по публичному префиксу, либо проверяется,
// получает заголовки идентичности и проксируется в сервис.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"lms-platform/config"
	"lms-platform/internal/apperr"
	"lms-platform/internal/handler"
	"lms-platform/internal/security"
	"lms-platform/internal/util"

	"github.com/go-chi/chi/v5"
)

type Gateway struct {
	routes  []*route
	public  []string
	verify  func(http.Handler) http.Handler
	limiter *ClientLimiter
}

func New(cfg config.GatewayConfig, tokens *security.TokenService) (*Gateway, error) {
	transport := newTransport()

	routes := make([]*route, 0, len(cfg.Routes))
	for _, routeCfg := range cfg.Routes {
		rt, err := newProxy(routeCfg, transport)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", routeCfg.Prefix, err)
		}
		routes = append(routes, rt)
	}
	// самый длинный префикс проверяется первым
	sort.SliceStable(routes, func(i, j int) bool {
		return len(routes[i].prefix) > len(routes[j].prefix)
	})

	return &Gateway{
		routes:  routes,
		public:  cfg.PublicPrefixes,
		verify:  security.JWTMiddleware(tokens),
		limiter: NewClientLimiter(cfg.RateLimit),
	}, nil
}

// Routes : порядок middleware важен, заголовки идентичности
// удаляются до любой другой обработки запроса
func (g *Gateway) Routes(r chi.Router) {
	r.Use(stripIdentity)
	handler.UseCommonMiddleware(r)
	if g.limiter != nil {
		r.Use(g.limiter.Middleware)
	}

	r.Get("/health", handler.Health("gateway"))
	r.Handle("/*", http.HandlerFunc(g.serve))
}

// RunCleanup : периодически чистит лимитер до отмены ctx
func (g *Gateway) RunCleanup(ctx context.Context, interval time.Duration) {
	if g.limiter == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.limiter.Cleanup()
		}
	}
}

func (g *Gateway) serve(w http.ResponseWriter, r *http.Request) {
	if !canonicalPath(r.URL.Path) {
		util.HandleError(w, r, apperr.NotFound("route not found", nil))
		return
	}

	rt := g.match(r.URL.Path)
	if rt == nil {
		util.HandleError(w, r, apperr.NotFound("route not found", nil))
		return
	}

	if g.isPublic(r.URL.Path) {
		rt.proxy.ServeHTTP(w, r)
		return
	}

	g.verify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := security.IdentityFromContext(r.Context())
		if !ok {
			util.HandleError(w, r, apperr.Authentication("authentication required", nil))
			return
		}
		security.InjectIdentityHeaders(r.Header, identity)
		rt.proxy.ServeHTTP(w, r)
	})).ServeHTTP(w, r)
}

func (g *Gateway) match(p string) *route {
	for _, rt := range g.routes {
		if matchPrefix(p, rt.prefix) {
			return rt
		}
	}
	return nil
}

func (g *Gateway) isPublic(p string) bool {
	for _, prefix := range g.public {
		if matchPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// canonicalPath : пути с . и .. не проходят, иначе публичный префикс
// можно было бы использовать для обхода проверки токена
func canonicalPath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	cleaned := path.Clean(p)
	if strings.HasSuffix(p, "/") && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned == p
}

func stripIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		security.StripIdentityHeaders(r.Header)
		next.ServeHTTP(w, r)
	})
}
