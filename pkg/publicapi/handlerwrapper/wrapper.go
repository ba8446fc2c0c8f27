package handlerwrapper

import (
	"context"
	"net"
	"net/http"

	"github.com/felixge/httpsnoop"
)

type subjectKey struct{}

type subjectHolder struct {
	subject string
}

// SetSubject records the authenticated subject of a request served through an HTTPHandlerWrapper.
func SetSubject(ctx context.Context, subject string) {
	if h, ok := ctx.Value(subjectKey{}).(*subjectHolder); ok {
		h.subject = subject
	}
}

// HTTPHandlerWrapper measures every request and hands the result to a RequestInfoHandler.
type HTTPHandlerWrapper struct {
	route              string
	httpHandler        http.Handler
	requestInfoHandler RequestInfoHandler
}

func NewHTTPHandlerWrapper(route string, httpHandler http.Handler, requestInfoHandler RequestInfoHandler) *HTTPHandlerWrapper {
	return &HTTPHandlerWrapper{
		route:              route,
		httpHandler:        httpHandler,
		requestInfoHandler: requestInfoHandler,
	}
}

func (wrapper *HTTPHandlerWrapper) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	holder := &subjectHolder{}
	r = r.WithContext(context.WithValue(r.Context(), subjectKey{}, holder))

	ri := &HTTPRequestInfo{
		URI:       r.URL.String(),
		Method:    r.Method,
		Route:     wrapper.route,
		Referer:   r.Header.Get("Referer"),
		UserAgent: r.Header.Get("User-Agent"),
		Ipaddr:    requestIP(r),
	}

	m := httpsnoop.CaptureMetrics(wrapper.httpHandler, w, r)
	ri.StatusCode = m.Code
	ri.Size = m.Written
	ri.Duration = m.Duration.Milliseconds()
	ri.Subject = holder.subject

	wrapper.requestInfoHandler.Handle(r.Context(), ri)
}

func requestIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
