package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listquery/internal/domain/dataset"
	"github.com/kailas-cloud/listquery/internal/domain/query/page"
	"github.com/kailas-cloud/listquery/internal/domain/query/result"
	logpkg "github.com/kailas-cloud/listquery/internal/logger"
	dsrepo "github.com/kailas-cloud/listquery/internal/repository/dataset"
	chiTransport "github.com/kailas-cloud/listquery/internal/transport/chi"
	"github.com/kailas-cloud/listquery/internal/usecase/listquery"
	"github.com/kailas-cloud/listquery/internal/validator"
)

type queryOptions struct {
	search    string
	fields    []string
	facets    []string
	ranges    []string
	dates     []string
	sortKey   string
	desc      bool
	page      int
	size      int
	selected  []string
	selectAll string
	output    string
	seedDir   string
}

// source resolves the seed directory and page limits: --seed-dir wins,
// otherwise the config file decides.
func (o *queryOptions) source(root *rootOptions) (string, chiTransport.PageLimits, error) {
	if o.seedDir != "" {
		return o.seedDir, chiTransport.PageLimits{Default: page.DefaultSize, Max: page.MaxSize}, nil
	}
	cfg, err := root.loadConfig()
	if err != nil {
		return "", chiTransport.PageLimits{}, fmt.Errorf("load config: %w", err)
	}
	return cfg.Datasets.SeedDir,
		chiTransport.PageLimits{Default: cfg.Query.DefaultPageSize, Max: cfg.Query.MaxPageSize}, nil
}

func (o *queryOptions) params() chiTransport.RecordsParams {
	direction := "asc"
	if o.desc {
		direction = "desc"
	}
	return chiTransport.RecordsParams{
		Search:    &o.search,
		Field:     &o.fields,
		Sort:      &o.sortKey,
		Direction: &direction,
		Page:      &o.page,
		Size:      &o.size,
		Facet:     &o.facets,
		Range:     &o.ranges,
		Date:      &o.dates,
		Selected:  &o.selected,
		SelectAll: &o.selectAll,
	}
}

func queryCmd(root *rootOptions) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query <dataset>",
		Short: "Evaluate a list query against the seed fixtures",
		Long: heredoc.Doc(`
			Evaluate one list query offline against the seed fixtures.

			Filters use the same grammar as the HTTP query string:
			facet field:value, range field:min:max, date field:from:to.
		`),
		Example: heredoc.Doc(`
			$ listquery query campaigns --facet status:Active --sort revenue --desc
			$ listquery query customers -s acme --facet segment:enterprise -o json
			$ listquery query products --range price:10:50 --date createdAt:2024-01-01:
			$ listquery query coupons --selected cpn-1 --select-all matched --seed-dir ./data/seed
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "table" && opts.output != "json" {
				return fmt.Errorf("unknown output %q (want table or json)", opts.output)
			}
			seedDir, limits, err := opts.source(root)
			if err != nil {
				return err
			}

			req, err := opts.params().QueryRequest()
			if err != nil {
				return err
			}
			if err := validator.Struct(req); err != nil {
				return err
			}
			d, err := req.Descriptor(limits)
			if err != nil {
				return err
			}

			logger := cliLogger(root)
			ctx := logpkg.ContextWithLogger(cmd.Context(), logger)
			reg, _, err := loadRegistry(ctx, seedDir, logger)
			if err != nil {
				return err
			}

			res, err := listquery.NewService(reg).Query(ctx, listquery.Request{
				Dataset:    args[0],
				Descriptor: d,
				Selection:  req.SelectionSet(),
				SelectAll:  listquery.SelectScope(req.SelectAll),
			})
			if err != nil {
				return err
			}

			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), res)
			}
			src, err := reg.Source(args[0])
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), src, res)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "s", "", "Case-insensitive search term")
	f.StringArrayVar(&opts.fields, "field", nil, "Restrict search to this field (repeatable)")
	f.StringArrayVarP(&opts.facets, "facet", "f", nil, "Facet filter field:value (repeatable)")
	f.StringArrayVarP(&opts.ranges, "range", "r", nil, "Numeric range field:min:max (repeatable)")
	f.StringArrayVarP(&opts.dates, "date", "d", nil, "Date range field:from:to (repeatable)")
	f.StringVar(&opts.sortKey, "sort", "", "Sort key")
	f.BoolVar(&opts.desc, "desc", false, "Sort descending")
	f.IntVarP(&opts.page, "page", "p", 1, "Page index, 1-based")
	f.IntVar(&opts.size, "size", 0, "Page size (0 uses the default)")
	f.StringArrayVar(&opts.selected, "selected", nil, "Selected record id (repeatable)")
	f.StringVar(&opts.selectAll, "select-all", "", "Extend the selection: page or matched")
	f.StringVarP(&opts.output, "output", "o", "table", "Output format: table or json")
	f.StringVar(&opts.seedDir, "seed-dir", "", "Seed fixture directory (overrides config)")
	return cmd
}

// cliLogger logs warnings only; the CLI output is the result.
func cliLogger(root *rootOptions) *zap.Logger {
	l, err := logpkg.NewLogger(root.env, "warn")
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func printJSON(w io.Writer, res result.Result[dataset.Row]) error {
	items := make([]any, len(res.Items()))
	for i, r := range res.Items() {
		items[i] = r.Record
	}
	sel := res.Selection().IDs()
	if sel == nil {
		sel = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(chiTransport.QueryResponse[any]{
		Items:        items,
		TotalMatched: res.TotalMatched(),
		TotalPages:   res.TotalPages(),
		Page:         res.Page(),
		Selection:    sel,
	})
}

func printTable(w io.Writer, src dsrepo.Source, res result.Result[dataset.Row]) error {
	fields := src.Info().Fields()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	header := []string{"ID"}
	for _, f := range fields {
		header = append(header, strings.ToUpper(f.Name()))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range res.Items() {
		snap, _ := src.Snapshot(row.ID)
		cols := []string{row.ID}
		for _, f := range fields {
			v := snap[f.Name()]
			if v == "" {
				v = "-"
			}
			cols = append(cols, v)
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d matched, page %d of %d, %d selected\n",
		res.TotalMatched(), res.Page(), res.TotalPages(), res.Selection().Len())
	return err
}
