package publicapi

import (
	"context"

	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/publicapi/apimodels"
	"github.com/backit-onchain/oracle/pkg/version"
)

func (apiServer *APIServer) livez(context.Context) (apimodels.HealthResponse, error) {
	return apimodels.HealthResponse{Status: "OK"}, nil
}

// readyz reports ready once the node answers info_get_status.
func (apiServer *APIServer) readyz(ctx context.Context) (apimodels.HealthResponse, error) {
	status, err := apiServer.node.GetStatus(ctx)
	if err != nil {
		return apimodels.HealthResponse{}, oracleerrors.NewNetworkFailure("info_get_status", err)
	}
	return apimodels.HealthResponse{
		Status:     "OK",
		ChainName:  status.ChainSpecName,
		APIVersion: status.APIVersion,
	}, nil
}

func (apiServer *APIServer) version(context.Context) (*version.BuildVersionInfo, error) {
	return version.Get(), nil
}
