package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ash/internal/config"
	"github.com/roach88/ash/internal/format"
	"github.com/roach88/ash/internal/logging"
	"github.com/roach88/ash/internal/query"
	"github.com/roach88/ash/internal/record"
	"github.com/roach88/ash/internal/store"
)

// QueryOptions holds the flags for the ashquery command.
type QueryOptions struct {
	Database     string
	Format       string
	Limit        int
	PrintQuery   string
	Query        string
	ListFormats  bool
	HideHeadings bool
	ListQueries  bool
	Reverse      bool
	Version      bool
}

// NewQueryCommand builds the ashquery root command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "ashquery",
		Short: "Run saved queries against the shell history database",
		Long: "ashquery executes saved queries against the history database written\n" +
			"by ashlog and renders the results in a choice of output formats.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Database, "database", "d", "", "a history database to query")
	f.StringVarP(&opts.Format, "format", "f", "", "a format to display results")
	f.IntVarP(&opts.Limit, "limit", "l", 0, "limit the number of rows returned")
	f.StringVarP(&opts.PrintQuery, "print-query", "p", "", "print the SQL of a saved query")
	f.StringVarP(&opts.Query, "query", "q", "", "the name of the saved query to execute")
	f.BoolVarP(&opts.ListFormats, "list-formats", "F", false, "display all available formats")
	f.BoolVarP(&opts.HideHeadings, "hide-headings", "H", false, "hide column headings from query results")
	f.BoolVarP(&opts.ListQueries, "list-queries", "Q", false, "display all saved queries")
	f.BoolVarP(&opts.Reverse, "reverse", "R", false, "display results in reverse order")
	f.BoolVarP(&opts.Version, "version", "V", false, "print the version and exit")

	return cmd
}

func runQuery(cmd *cobra.Command, opts *QueryOptions) error {
	cfg := config.FromEnvironment()
	log := logging.Init(cfg)
	out := cmd.OutOrStdout()

	if opts.Version {
		fmt.Fprintln(out, Version)
		return nil
	}

	catalog := query.NewCatalog()
	for _, err := range catalog.LoadDefaultFiles() {
		log.Warnf("skipping malformed queries file: %v", err)
	}

	if opts.ListQueries {
		writeCatalog(out, "Query", catalog.Descriptions())
		return nil
	}
	if opts.ListFormats {
		writeCatalog(out, "Format", format.Descriptions())
		return nil
	}

	if opts.PrintQuery != "" {
		q, ok := catalog.Get(opts.PrintQuery)
		if !ok {
			writeCatalog(cmd.ErrOrStderr(), "Query", catalog.Descriptions())
			return fmt.Errorf("unknown query: %q", opts.PrintQuery)
		}
		expanded := query.Expand(q.SQL)
		if strings.TrimSpace(expanded) != strings.TrimSpace(q.SQL) {
			fmt.Fprintf(out, "Query: %s\nRaw:\n%s\nExpanded:\n%s\n", q.Name, q.SQL, expanded)
		} else {
			fmt.Fprintf(out, "Query: %s\n%s\n", q.Name, q.SQL)
		}
		return nil
	}

	if opts.Query == "" {
		return cmd.Help()
	}
	q, ok := catalog.Get(opts.Query)
	if !ok {
		writeCatalog(cmd.ErrOrStderr(), "Query", catalog.Descriptions())
		return fmt.Errorf("unknown query: %q", opts.Query)
	}

	dbFile := opts.Database
	if dbFile == "" {
		dbFile = cfg.GetString("HISTORY_DB", "")
	}
	if dbFile == "" {
		return errors.New("expected either --database or ASH_CFG_HISTORY_DB to be defined")
	}

	formatName := opts.Format
	if formatName == "" {
		formatName = cfg.GetString("DEFAULT_FORMAT", "aligned")
	}
	formatter, ok := format.Lookup(formatName, !opts.HideHeadings)
	if !ok {
		writeCatalog(cmd.ErrOrStderr(), "Format", format.Descriptions())
		return fmt.Errorf("unknown format: %q", formatName)
	}

	reg := store.NewRegistry()
	record.RegisterTables(reg)
	db := store.Open(dbFile, reg, storeOptions(cfg, log))
	defer db.Close()

	rs := db.Exec(query.Expand(q.SQL), opts.Limit, opts.Reverse)
	if rs == nil {
		return nil
	}
	return formatter.Format(rs, out)
}
