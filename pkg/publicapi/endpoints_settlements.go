package publicapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/settlement"
	"github.com/backit-onchain/oracle/pkg/store"
)

func (apiServer *APIServer) settlements(ctx context.Context, req *http.Request) ([]store.Settlement, error) {
	query, err := parseSettlementQuery(req)
	if err != nil {
		return nil, err
	}
	return apiServer.oracle.Settlements(ctx, query)
}

func parseSettlementQuery(req *http.Request) (store.SettlementQuery, error) {
	var query store.SettlementQuery
	values := req.URL.Query()

	if s := values.Get("status"); s != "" {
		status, err := settlement.ParseDeployStatus(s)
		if err != nil {
			return query, oracleerrors.Wrap(oracleerrors.BadRequest, err, "invalid status")
		}
		query.Status = status
	}
	for name, dst := range map[string]*int{"limit": &query.Limit, "offset": &query.Offset} {
		s := values.Get(name)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return query, oracleerrors.New(oracleerrors.BadRequest, "invalid %s %q", name, s)
		}
		*dst = v
	}
	if s := values.Get("reverse"); s != "" {
		reverse, err := strconv.ParseBool(s)
		if err != nil {
			return query, oracleerrors.New(oracleerrors.BadRequest, "invalid reverse %q", s)
		}
		query.SortReverse = reverse
	}
	return query, nil
}

func (apiServer *APIServer) settlement(ctx context.Context, req *http.Request) (store.Settlement, error) {
	raw := mux.Vars(req)["callID"]
	callID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return store.Settlement{}, oracleerrors.New(oracleerrors.BadRequest, "invalid call id %q", raw)
	}
	return apiServer.oracle.Settlement(ctx, callID)
}
