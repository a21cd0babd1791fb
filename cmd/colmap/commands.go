package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/fsarwari/pgCompare/internal/catalog"
	"github.com/fsarwari/pgCompare/internal/column"
	"github.com/fsarwari/pgCompare/internal/datatype"
	"github.com/fsarwari/pgCompare/internal/server"
	"github.com/spf13/cobra"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify TYPE...",
		Short: "Show how raw SQL type names are classified",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tCLASS\tCATEGORY\tSUPPORTED")
			for _, raw := range args {
				category, known := datatype.Lookup(raw)
				cat := category.String()
				if !known {
					cat = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", raw, datatype.Classify(raw), cat, datatype.IsSupported(raw))
			}
			return tw.Flush()
		},
	}
}

func newColumnsCmd() *cobra.Command {
	var (
		dest    string
		archive bool
	)
	cmd := &cobra.Command{
		Use:   "columns ROLE SCHEMA TABLE",
		Short: "Fetch the normalized column map of a table",
		Long: `Reads the column definitions of SCHEMA.TABLE through ROLE's connection and
prints them as JSON. Value expressions are built for the engine of --dest,
which defaults to ROLE.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, schema, table := args[0], args[1], args[2]
			if dest == "" {
				dest = role
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			db, err := a.conns.DB(ctx, role)
			if err != nil {
				return err
			}
			qctx, cancel := a.conns.WithQueryTimeout(ctx, role)
			defer cancel()

			p, err := a.fetcher.ProfileFor(role, dest)
			if err != nil {
				return err
			}
			cols, fetchErr := a.fetcher.Fetch(qctx, db, schema, table, p)
			if err := printJSON(cmd.OutOrStdout(), cols); err != nil {
				return err
			}
			if fetchErr != nil {
				return fetchErr
			}

			if !archive {
				return nil
			}
			store, bucket, err := a.store(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			info, err := column.Save(ctx, store, bucket, a.cfg.Archive.Prefix,
				column.NewArchive(dest, p.Engine.String(), schema, table, cols))
			if err != nil {
				return err
			}
			a.log.With().Str("bucket", bucket).Str("key", info.Key).Logger().Info("column map archived")
			return nil
		},
	}
	cmd.Flags().StringVar(&dest, "dest", "", "role whose engine the value expressions are built for")
	cmd.Flags().BoolVar(&archive, "archive", false, "also store the column map in the configured archive")
	return cmd
}

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables ROLE SCHEMA",
		Short: "List the tables of a schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			db, err := a.conns.DB(ctx, args[0])
			if err != nil {
				return err
			}
			qctx, cancel := a.conns.WithQueryTimeout(ctx, args[0])
			defer cancel()

			tables, err := a.fetcher.ListTables(qctx, db, args[1], args[0])
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func newPreviewCmd() *cobra.Command {
	var (
		limit, offset int
		where         []string
	)
	cmd := &cobra.Command{
		Use:   "preview ROLE SCHEMA TABLE",
		Short: "Show normalized values of the first rows of a table",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, schema, table := args[0], args[1], args[2]

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			db, err := a.conns.DB(ctx, role)
			if err != nil {
				return err
			}
			qctx, cancel := a.conns.WithQueryTimeout(ctx, role)
			defer cancel()

			opts := catalog.PreviewOptions{Limit: limit, Offset: offset}
			for _, w := range where {
				flt, err := catalog.ParseFilter(w)
				if err != nil {
					return err
				}
				opts.Filters = append(opts.Filters, flt)
			}

			rows, err := a.fetcher.Preview(qctx, db, schema, table, role, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of rows to read (max 1000)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of rows to skip")
	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, `filter on a raw column value, e.g. "dept_id=10" (repeatable)`)
	return cmd
}

func newArchiveCmd() *cobra.Command {
	archive := &cobra.Command{
		Use:   "archive",
		Short: "Inspect archived column maps",
	}

	archive.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List archived column maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			store, bucket, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			keys, err := column.List(cmd.Context(), store, bucket, a.cfg.Archive.Prefix)
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	})

	archive.AddCommand(&cobra.Command{
		Use:   "show KEY",
		Short: "Print one archived column map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			store, bucket, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			doc, err := column.Load(cmd.Context(), store, bucket, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	})

	return archive
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve classification and column metadata over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.fetcher, a.conns, a.cfg, a.log)
			return srv.Run(ctx, addr, a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to server.addr from the config)")
	return cmd
}
