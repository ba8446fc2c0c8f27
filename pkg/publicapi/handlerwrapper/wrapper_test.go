//go:build unit || !integration

package handlerwrapper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	infos []*HTTPRequestInfo
}

func (h *recordingHandler) Handle(_ context.Context, ri *HTTPRequestInfo) {
	h.infos = append(h.infos, ri)
}

func TestWrapperCapturesResponse(t *testing.T) {
	recorder := &recordingHandler{}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetSubject(r.Context(), "keeper")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hello"))
	})
	wrapper := NewHTTPHandlerWrapper("/api/v1/test", inner, recorder)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/test?x=1", nil)
	req.Header.Set("User-Agent", "unit-test")
	req.Header.Set("X-Forwarded-For", "10.0.0.9")
	w := httptest.NewRecorder()
	wrapper.ServeHTTP(w, req)

	require.Len(t, recorder.infos, 1)
	ri := recorder.infos[0]
	assert.Equal(t, http.StatusTeapot, ri.StatusCode)
	assert.Equal(t, int64(5), ri.Size)
	assert.Equal(t, http.MethodPost, ri.Method)
	assert.Equal(t, "/api/v1/test", ri.Route)
	assert.Equal(t, "/api/v1/test?x=1", ri.URI)
	assert.Equal(t, "keeper", ri.Subject)
	assert.Equal(t, "unit-test", ri.UserAgent)
	assert.Equal(t, "10.0.0.9", ri.Ipaddr)
}

func TestSetSubjectWithoutWrapperIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { SetSubject(context.Background(), "nobody") })
}
