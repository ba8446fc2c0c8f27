package util

import (
	"github.com/spf13/cobra"

	"github.com/backit-onchain/oracle/pkg/publicapi/client"
)

// GetAPIClient returns a client for the oracle named by --api-url, authenticated with --token.
func GetAPIClient(cmd *cobra.Command) (*client.APIClient, error) {
	baseURL, err := cmd.Flags().GetString(FlagAPIURL)
	if err != nil {
		return nil, err
	}
	token, err := cmd.Flags().GetString(FlagToken)
	if err != nil {
		return nil, err
	}
	return client.NewAPIClient(baseURL).WithToken(token), nil
}
