package output

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"sigs.k8s.io/yaml"
)

type OutputFormat string

const (
	TableFormat OutputFormat = "table"
	CSVFormat   OutputFormat = "csv"
	JSONFormat  OutputFormat = "json"
	YAMLFormat  OutputFormat = "yaml"
)

var AllFormats = []OutputFormat{TableFormat, CSVFormat, JSONFormat, YAMLFormat}

var noStyle = table.Style{
	Name:   "StyleDefault",
	Box:    table.StyleBoxDefault,
	Color:  table.ColorOptionsDefault,
	Format: table.FormatOptionsDefault,
	HTML:   table.DefaultHTMLOptions,
	Options: table.Options{
		DrawBorder:      false,
		SeparateColumns: false,
		SeparateFooter:  false,
		SeparateHeader:  false,
		SeparateRows:    false,
	},
	Title: table.TitleOptionsDefault,
}

type OutputOptions struct {
	Format     OutputFormat // The output format for the list of settlements
	Pretty     bool         // Pretty print the output
	HideHeader bool         // Hide the column headers
	NoStyle    bool         // Remove all styling from table output.
	Wide       bool         // Print full values in the table results
}

type TableColumn[T any] struct {
	table.ColumnConfig
	Value func(T) string
}

// OutputFormatFlags registers --output, --pretty, --hide-header, --no-style and --wide.
func OutputFormatFlags(opts *OutputOptions) *pflag.FlagSet {
	fs := pflag.NewFlagSet("output format", pflag.ContinueOnError)
	fs.Var(&formatValue{target: &opts.Format}, "output",
		fmt.Sprintf("The output format for the command (one of %v)", AllFormats))
	fs.BoolVar(&opts.Pretty, "pretty", opts.Pretty, "Pretty print the output. Only applies to json output.")
	fs.BoolVar(&opts.HideHeader, "hide-header", opts.HideHeader, "do not print the column headers.")
	fs.BoolVar(&opts.NoStyle, "no-style", opts.NoStyle, "remove all styling from table output.")
	fs.BoolVar(&opts.Wide, "wide", opts.Wide, "Print full values in the table results")
	return fs
}

type formatValue struct {
	target *OutputFormat
}

func (f *formatValue) String() string {
	if f.target == nil {
		return ""
	}
	return string(*f.target)
}

func (f *formatValue) Set(s string) error {
	for _, format := range AllFormats {
		if string(format) == s {
			*f.target = format
			return nil
		}
	}
	return fmt.Errorf("invalid output format %q, expected one of %v", s, AllFormats)
}

func (f *formatValue) Type() string {
	return "format"
}

func Output[T any](cmd *cobra.Command, columns []TableColumn[T], options OutputOptions, items []T) error {
	switch options.Format {
	case TableFormat, CSVFormat:
		outputTable[T](cmd, columns, options, items)
		return nil
	case YAMLFormat:
		return outputYAML(cmd, items)
	default:
		return outputJSON(cmd, options, items)
	}
}

func OutputOne[T any](cmd *cobra.Command, columns []TableColumn[T], options OutputOptions, item T) error {
	switch options.Format {
	case TableFormat, CSVFormat:
		outputTable[T](cmd, columns, options, []T{item})
		return nil
	case YAMLFormat:
		return outputYAML(cmd, item)
	default:
		return outputJSON(cmd, options, item)
	}
}

func outputJSON(cmd *cobra.Command, options OutputOptions, v any) error {
	if options.Format != JSONFormat {
		return fmt.Errorf("invalid format %q", options.Format)
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	if options.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

func outputYAML(cmd *cobra.Command, v any) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

// RedStr colours s red for terminal output.
func RedStr(s string) string {
	return text.FgRed.Sprint(s)
}

func outputTable[T any](cmd *cobra.Command, columns []TableColumn[T], options OutputOptions, items []T) {
	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())

	configs := lo.Map(columns, func(c TableColumn[T], i int) table.ColumnConfig {
		config := c.ColumnConfig
		config.Number = i + 1
		if options.Wide {
			config.WidthMax = 0
			config.WidthMaxEnforcer = nil
		}
		return config
	})
	tw.SetColumnConfigs(configs)

	if !options.HideHeader {
		headers := lo.Map(columns, func(c TableColumn[T], _ int) any { return c.Name })
		tw.AppendHeader(headers)
	}

	tw.SetStyle(table.StyleColoredGreenWhiteOnBlack)
	if options.NoStyle {
		tw.SetStyle(noStyle)
	}

	for _, item := range items {
		values := lo.Map(columns, func(c TableColumn[T], _ int) any {
			return c.Value(item)
		})
		tw.AppendRow(values)
	}

	switch options.Format {
	case TableFormat:
		tw.Render()
	case CSVFormat:
		tw.RenderCSV()
	}
}
