package gateway

import (
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"lms-platform/config"
	"lms-platform/internal/apperr"
	"lms-platform/internal/util"
)

// route : префикс пути и прокси к сервису за ним
type route struct {
	prefix string
	proxy  *httputil.ReverseProxy
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:          200,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}
}

// newProxy : reverse proxy к upstream с отрезанием strip_prefix.
// Ошибка соединения с сервисом отдаётся клиенту как 502 в общем конверте.
func newProxy(cfg config.RouteConfig, transport http.RoundTripper) (*route, error) {
	target, err := url.Parse(cfg.Upstream)
	if err != nil {
		return nil, err
	}

	p := httputil.NewSingleHostReverseProxy(target)
	p.Transport = transport

	origDirector := p.Director
	p.Director = func(req *http.Request) {
		originalHost := req.Host
		originalProto := "http"
		if req.TLS != nil {
			originalProto = "https"
		}

		if cfg.StripPrefix != "" && strings.HasPrefix(req.URL.Path, cfg.StripPrefix) {
			req.URL.Path = ensureLeadingSlash(strings.TrimPrefix(req.URL.Path, cfg.StripPrefix))
			if rp := req.URL.RawPath; rp != "" && strings.HasPrefix(rp, cfg.StripPrefix) {
				req.URL.RawPath = ensureLeadingSlash(strings.TrimPrefix(rp, cfg.StripPrefix))
			}
		}

		origDirector(req)

		req.Header.Set("X-Forwarded-Proto", originalProto)
		if originalHost != "" {
			req.Header.Set("X-Forwarded-Host", originalHost)
		}
	}

	// trace id уже выставлен шлюзом, копия из ответа сервиса задвоила бы заголовок
	p.ModifyResponse = func(resp *http.Response) error {
		resp.Header.Del(util.TraceHeader)
		return nil
	}
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		util.HandleError(w, r, apperr.BadGateway(err))
	}
	p.FlushInterval = 100 * time.Millisecond

	return &route{prefix: cfg.Prefix, proxy: p}, nil
}

func ensureLeadingSlash(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

// matchPrefix : совпадение по границе сегмента, /api/courses не совпадает с /api/coursesX
func matchPrefix(path, prefix string) bool {
	trimmed := strings.TrimSuffix(prefix, "/")
	if trimmed == "" {
		return true
	}
	return path == trimmed || strings.HasPrefix(path, trimmed+"/")
}
