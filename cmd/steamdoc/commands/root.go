package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"steamdoc/lib/export"
	"steamdoc/lib/scrapers/steamworks"
	"steamdoc/lib/telemetry"
	"steamdoc/lib/textutil"

	"github.com/spf13/cobra"
)

const (
	formatPlain = "plain"
	formatTable = "table"
)

// Options holds every flag of the root command.
type Options struct {
	Sections   bool
	Section    string
	Point      string
	Points     bool
	PointNames bool
	Export     string
	Format     string

	BaseUrl  string
	Config   string
	DumpHttp string
	Markdown bool
	Verbose  bool
}

// usageError marks an error caused by how the command was invoked rather
// than by anything that happened while running it.
type usageError struct {
	err error
}

func (e usageError) Error() string {
	return e.err.Error()
}

func (e usageError) Unwrap() error {
	return e.err
}

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

func (o *Options) selectors() int {
	count := 0
	for _, set := range []bool{o.Point != "", o.Points, o.PointNames} {
		if set {
			count++
		}
	}
	return count
}

func (o *Options) hasQuery() bool {
	return o.Sections || o.Section != "" || o.selectors() > 0
}

func (o *Options) validate() error {
	switch {
	case o.Sections && o.Section != "":
		return usagef("--sections and --section cannot be used together")
	case o.selectors() > 1:
		return usagef("only one of --point, --points or --point-names can be given")
	case o.Section != "" && o.selectors() == 0:
		return usagef("--section needs --point, --points or --point-names")
	case o.Section == "" && o.selectors() > 0:
		return usagef("--point, --points and --point-names need --section")
	}
	if o.Format != formatPlain && o.Format != formatTable {
		return usagef("unknown format %q, expected %q or %q", o.Format, formatPlain, formatTable)
	}
	return nil
}

func noArgs(cmd *cobra.Command, args []string) error {
	err := cobra.NoArgs(cmd, args)
	if err != nil {
		return usageError{err: err}
	}
	return nil
}

func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "steamdoc [--sections | --section <id> (--point <name> | --points | --point-names)] [--export <path>]",
		Short: "steamdoc scrapes the Steamworks Web API documentation into structured data.",
		Args:  noArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			telemetry.InitSlog(opts.Verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := opts.validate()
			if err != nil {
				return err
			}
			if !opts.hasQuery() {
				return cmd.Help()
			}
			return runQuery(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	flags := cmd.Flags()
	flags.BoolVar(&opts.Sections, "sections", false, "List every section of the documentation.")
	flags.StringVar(&opts.Section, "section", "", "The section to query, requires --point, --points or --point-names.")
	flags.StringVar(&opts.Point, "point", "", "A single endpoint of the section, by its exact name.")
	flags.BoolVar(&opts.Points, "points", false, "Every endpoint of the section.")
	flags.BoolVar(&opts.PointNames, "point-names", false, "The names of every endpoint of the section.")
	flags.StringVar(&opts.Export, "export", "", "Write the result as JSON to a new file instead of printing it.")
	flags.StringVar(&opts.Format, "format", formatPlain, "How endpoints are printed, plain or table.")

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&opts.BaseUrl, "base-url", "", "The documentation landing page (default "+steamworks.DefaultBaseUrl+").")
	persistent.StringVar(&opts.Config, "config", "", "The config file to read (default: "+defaultConfigName+" searched upward from the cwd).")
	persistent.StringVar(&opts.DumpHttp, "dump-http", "", "Write a transcript of every http request to this directory.")
	persistent.BoolVar(&opts.Markdown, "markdown", false, "Convert parameter descriptions to markdown.")
	persistent.BoolVarP(&opts.Verbose, "verbose", "v", false, "Log debug messages.")

	cmd.AddCommand(newServeCommand(opts))
	return cmd
}

func runQuery(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()
	client, err := opts.newClient()
	if err != nil {
		return err
	}

	if opts.Sections {
		sections, err := client.Sections(ctx)
		if err != nil {
			return err
		}
		if opts.Export != "" {
			return export.Export(sections, opts.Export)
		}
		return export.PrintLines(cmd.OutOrStdout(), sections)
	}

	page, err := client.Section(ctx, opts.Section)
	if err != nil {
		return err
	}

	switch {
	case opts.PointNames:
		names := page.PointNames()
		if opts.Export != "" {
			return export.Export(names, opts.Export)
		}
		return export.PrintLines(cmd.OutOrStdout(), names)
	case opts.Points:
		points, err := page.Points()
		if err != nil {
			return err
		}
		return opts.writeEndpoints(cmd, page, points, points)
	default:
		point, found, err := page.Point(opts.Point)
		if err != nil {
			return err
		}
		if !found {
			suggestMiss(ctx, page, opts.Point)
			if opts.Export != "" {
				return export.Export(false, opts.Export)
			}
			return export.PrintValue(cmd.OutOrStdout(), false)
		}
		return opts.writeEndpoints(cmd, page, point, []steamworks.Endpoint{point})
	}
}

// writeEndpoints exports data, or prints it in the chosen format. endpoints
// is data as a list, for the table format.
func (o *Options) writeEndpoints(cmd *cobra.Command, page *steamworks.Page, data any, endpoints []steamworks.Endpoint) error {
	if o.Export != "" {
		return export.Export(data, o.Export)
	}
	out := cmd.OutOrStdout()
	if o.Format == formatTable {
		export.RenderEndpoints(out, page.Title(), endpoints)
		return nil
	}
	if list, ok := data.([]steamworks.Endpoint); ok {
		return export.PrintLines(out, list)
	}
	return export.PrintValue(out, data)
}

func suggestMiss(ctx context.Context, page *steamworks.Page, name string) {
	suggestions := textutil.Suggest(name, page.PointNames(), 3)
	if len(suggestions) == 0 {
		slog.InfoContext(ctx, "no such point", "section", page.Section, "point", name)
		return
	}
	slog.InfoContext(ctx, "no such point, did you mean one of these?",
		"section", page.Section,
		"point", name,
		"suggestions", suggestions,
	)
}

// Execute runs cmd and maps its result to an exit code: 0 on success, 2 for
// usage errors and 1 for everything else.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)

	var fetchErr *steamworks.FetchError
	if errors.As(err, &fetchErr) {
		slog.DebugContext(ctx, "fetch failed", "url", fetchErr.Url, "cause", fetchErr.Detail())
	}

	var usage usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(cmd.ErrOrStderr(), "run '%s --help' for usage.\n", cmd.CommandPath())
		return 2
	}
	return 1
}

func ExecuteContext(ctx context.Context) int {
	return Execute(ctx, NewRootCommand())
}
