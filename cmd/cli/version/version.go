package version

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/backit-onchain/oracle/cmd/util"
	"github.com/backit-onchain/oracle/cmd/util/output"
	"github.com/backit-onchain/oracle/pkg/version"
)

type versionRow struct {
	Component string                    `json:"component"`
	Info      *version.BuildVersionInfo `json:"version"`
}

var columns = []output.TableColumn[versionRow]{
	{ColumnConfig: table.ColumnConfig{Name: "component"}, Value: func(r versionRow) string { return r.Component }},
	{ColumnConfig: table.ColumnConfig{Name: "version"}, Value: func(r versionRow) string { return r.Info.GitVersion }},
	{ColumnConfig: table.ColumnConfig{Name: "commit"}, Value: func(r versionRow) string { return r.Info.GitCommit }},
	{ColumnConfig: table.ColumnConfig{Name: "os/arch"}, Value: func(r versionRow) string {
		return r.Info.GOOS + "/" + r.Info.GOARCH
	}},
}

func NewCmd() *cobra.Command {
	opts := output.OutputOptions{Format: output.TableFormat}
	var server bool
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the client and server version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := []versionRow{{Component: "client", Info: version.Get()}}
			if server {
				apiClient, err := util.GetAPIClient(cmd)
				if err != nil {
					return err
				}
				info, err := apiClient.Version(cmd.Context())
				if err != nil {
					log.Ctx(cmd.Context()).Warn().Err(err).Msg("could not reach the oracle server")
				} else {
					rows = append(rows, versionRow{Component: "server", Info: info})
				}
			}
			return output.Output(cmd, columns, opts, rows)
		},
	}
	versionCmd.Flags().BoolVar(&server, "server", false, "Also ask the oracle at --api-url for its version.")
	versionCmd.Flags().AddFlagSet(output.OutputFormatFlags(&opts))
	return versionCmd
}
