package publicapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/backit-onchain/oracle/pkg/oracleerrors"
)

// maxRequestBodySize bounds every JSON request body.
const maxRequestBodySize = 1 << 20

type httpErrorFunc func(http.ResponseWriter, *http.Request) error

// handleError renders an error returned by a handler as an ErrorResponse with the status of its code.
func handleError(fn httpErrorFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		code := oracleerrors.CodeOf(err)
		if code.HTTPStatus() >= http.StatusInternalServerError {
			log.Ctx(r.Context()).Error().Err(err).Str("Path", r.URL.Path).Msg("request failed")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code.HTTPStatus())
		_, _ = w.Write([]byte(oracleerrors.ErrorToErrorResponse(err)))
	}
}

func returnsJSON[T any](fn func(context.Context, *http.Request) (T, error)) httpErrorFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		result, err := fn(r.Context(), r)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return json.NewEncoder(w).Encode(result)
	}
}

func expectsJSON[Req, Res any](fn func(context.Context, Req) (Res, error)) func(context.Context, *http.Request) (Res, error) {
	return func(ctx context.Context, r *http.Request) (Res, error) {
		var req Req
		decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBodySize))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			var empty Res
			return empty, oracleerrors.Wrap(oracleerrors.BadRequest, err, "invalid request body")
		}
		return fn(ctx, req)
	}
}

func expectsNothing[Res any](fn func(context.Context) (Res, error)) func(context.Context, *http.Request) (Res, error) {
	return func(ctx context.Context, _ *http.Request) (Res, error) {
		return fn(ctx)
	}
}
