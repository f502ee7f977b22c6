package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/legalsearch/internal/config"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/legalsearch/internal/version"
	legalsearch "github.com/kailas-cloud/legalsearch/pkg/sdk"
)

// run executes the command line and releases the client afterwards.
func run(out io.Writer, args []string) error {
	root, a := newRootCmd(out)
	defer a.close()
	root.SetArgs(args)
	return root.Execute() //nolint:wrapcheck // errors are printed as-is
}

// newRootCmd builds the command tree writing results to out.
func newRootCmd(out io.Writer) (*cobra.Command, *app) {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "legalsearchctl",
		Short:         "Query legal cases, statutes and facets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.env, "env", config.GetEnv(), "Config environment (local, dev, prod)")
	pf.StringVar(&a.redis, "redis", "", "Override the Redis address from config")
	pf.StringVarP(&a.format, "output", "o", formatYAML, "Output format: yaml or json")
	pf.StringVar(&a.level, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(
		newSearchCmd(a),
		newBrowseCmd(a),
		newLawsCmd(a),
		newCategoriesCmd(a),
		newFacetsCmd(a),
		newChildrenCmd(a),
		newYearsCmd(a),
		newCaseCmd(a),
		newLawCmd(a),
		newHealthCmd(a),
		newVersionCmd(a),
	)
	return root, a
}

type searchFlags struct {
	filters   []string
	page      int
	pageSize  int
	mode      string
	threshold float64
}

func (f *searchFlags) register(cmd *cobra.Command, withFilters bool) {
	fl := cmd.Flags()
	if withFilters {
		fl.StringArrayVarP(&f.filters, "filter", "f", nil, "Filter as category:value (repeatable)")
	}
	fl.IntVar(&f.page, "page", 0, "Zero-based page number")
	fl.IntVar(&f.pageSize, "page-size", 0, "Page size (0 uses the configured default)")
	fl.StringVar(&f.mode, "mode", "", "Search mode: hybrid, lexical or vector")
	fl.Float64Var(&f.threshold, "threshold", 0, "Minimum sort score; 0 disables")
}

func newSearchCmd(a *app) *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search cases; without a query, browse the cases matching the filters",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := filter.ParseAll(f.filters)
			if err != nil {
				return fmt.Errorf("filters: %w", err)
			}
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			page, err := c.Search(cmd.Context(), legalsearch.SearchRequest{
				Query:          strings.Join(args, " "),
				Filters:        filters,
				ScoreThreshold: f.threshold,
				PageSize:       f.pageSize,
				Page:           f.page,
				Mode:           legalsearch.SearchMode(f.mode),
			})
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			return render(a.out, a.format, page)
		},
	}
	f.register(cmd, true)
	return cmd
}

// browseResult is the filter tree with selections applied and the
// cases it selects.
type browseResult struct {
	Filters []legalsearch.FacetCategory `json:"filters"`
	Results legalsearch.CasePage        `json:"results"`
}

// pathSeparator splits facet paths, as in the HTTP children route.
const pathSeparator = "|"

// parseSelection splits "category:a|b" into a category and a node path.
func parseSelection(raw string) (string, []string, error) {
	sel, err := filter.Parse(raw)
	if err != nil {
		return "", nil, err //nolint:wrapcheck // already descriptive
	}
	return sel.Category, strings.Split(sel.Value, pathSeparator), nil
}

func newBrowseCmd(a *app) *cobra.Command {
	var (
		selects []string
		f       searchFlags
	)
	cmd := &cobra.Command{
		Use:   "browse [query]",
		Short: "Select nodes in the filter tree and show the matching cases",
		Long: "Select nodes in the filter tree with --select category:path, where a\n" +
			"hierarchical path joins levels with '|' (cause:民事|合同纠纷). Each selected\n" +
			"node is expanded in the tree and becomes a filter of the search.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.connect(ctx)
			if err != nil {
				return err
			}
			tree, err := c.FilterTree(ctx)
			if err != nil {
				return fmt.Errorf("filter tree: %w", err)
			}
			for _, raw := range selects {
				category, path, err := parseSelection(raw)
				if err != nil {
					return fmt.Errorf("select: %w", err)
				}
				if tree, err = c.ExpandPath(ctx, tree, category, path); err != nil {
					return fmt.Errorf("select %s: %w", raw, err)
				}
				tree = tree.Apply(category, path, true)
			}

			page, err := c.Search(ctx, legalsearch.SearchRequest{
				Query:          strings.Join(args, " "),
				Filters:        tree.Selections(),
				ScoreThreshold: f.threshold,
				PageSize:       f.pageSize,
				Page:           f.page,
				Mode:           legalsearch.SearchMode(f.mode),
			})
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			return render(a.out, a.format, browseResult{Filters: tree.Categories(), Results: page})
		},
	}
	cmd.Flags().StringArrayVarP(&selects, "select", "s", nil, "Select a node as category:path (repeatable)")
	f.register(cmd, false)
	return cmd
}

func newLawsCmd(a *app) *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "laws [query]",
		Short: "Search statutes and show their matched passages; without a query, list laws",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			page, err := c.SearchStatutes(cmd.Context(), legalsearch.StatuteRequest{
				Query:          strings.Join(args, " "),
				ScoreThreshold: f.threshold,
				PageSize:       f.pageSize,
				Page:           f.page,
				Mode:           legalsearch.SearchMode(f.mode),
			})
			if err != nil {
				return fmt.Errorf("search statutes: %w", err)
			}
			return render(a.out, a.format, page)
		},
	}
	f.register(cmd, false)
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List filterable categories with their root facets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			cats, err := c.Categories(cmd.Context())
			if err != nil {
				return fmt.Errorf("categories: %w", err)
			}
			return render(a.out, a.format, cats)
		},
	}
}

func newFacetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "facets <category>",
		Short: "Show the root facets of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			nodes, err := c.Facets(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("facets: %w", err)
			}
			return render(a.out, a.format, nodes)
		},
	}
}

func newChildrenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "children <category> [path...]",
		Short: "Show the children of a hierarchical facet node",
		Long: "Show the children of the node reached by following path from the root.\n" +
			"Without a path the root level is returned.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			nodes, err := c.ChildFacets(cmd.Context(), args[0], args[1:])
			if err != nil {
				return fmt.Errorf("child facets: %w", err)
			}
			return render(a.out, a.format, nodes)
		},
	}
}

func newYearsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "years [category]",
		Short: "Show the year distribution of a date category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := legalsearch.CategoryJudgedAt
			if len(args) == 1 {
				category = args[0]
			}
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			nodes, err := c.TimeFacets(cmd.Context(), category)
			if err != nil {
				return fmt.Errorf("time facets: %w", err)
			}
			return render(a.out, a.format, nodes)
		},
	}
}

func newCaseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "case <name>",
		Short: "Show one case by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			cs, err := c.GetCase(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get case: %w", err)
			}
			return render(a.out, a.format, cs)
		},
	}
}

func newLawCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "law <title>",
		Short: "Show one law by title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			law, err := c.GetLaw(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get law: %w", err)
			}
			return render(a.out, a.format, law)
		},
	}
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the store, indexes and embedder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			h := c.Health(cmd.Context())
			if err := render(a.out, a.format, h); err != nil {
				return err
			}
			if !h.Healthy() {
				return fmt.Errorf("status %s", h.Status)
			}
			return nil
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return render(a.out, a.format, version.Get())
		},
	}
}
