package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	shelterclient "github.com/Apurer/go-dog-portal/internal/clients/http/shelter"
	dogshelter "github.com/Apurer/go-dog-portal/internal/domains/dogs/adapters/external/shelter"
	dogobs "github.com/Apurer/go-dog-portal/internal/domains/dogs/adapters/observability"
	dogapp "github.com/Apurer/go-dog-portal/internal/domains/dogs/application"
	dogs "github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-portal/internal/platform/observability"
)

const reloginHint = "the shelter rejected the login cookie; run the command again with a valid --name and --email"

// globals are the persistent flags shared by every subcommand.
type globals struct {
	baseURL  string
	timeout  time.Duration
	name     string
	email    string
	asJSON   bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "fetchdog",
		Short:         "Search shelter dogs and generate a match from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&g.baseURL, "base-url", envOr("SHELTER_BASE_URL", shelterclient.DefaultBaseURL), "shelter API base URL")
	flags.DurationVar(&g.timeout, "timeout", 30*time.Second, "per request timeout, 0 disables it")
	flags.StringVar(&g.name, "name", os.Getenv("FETCHDOG_NAME"), "login name (env FETCHDOG_NAME)")
	flags.StringVar(&g.email, "email", os.Getenv("FETCHDOG_EMAIL"), "login email (env FETCHDOG_EMAIL)")
	flags.BoolVar(&g.asJSON, "json", false, "print JSON instead of a table")
	flags.StringVar(&g.logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "log level for diagnostics on stderr")

	root.AddCommand(
		newBreedsCmd(g),
		newSearchCmd(g),
		newLocationsCmd(g),
		newMatchCmd(g),
	)
	return root
}

func newBreedsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "breeds",
		Short: "List breed names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withService(cmd, func(ctx context.Context, svc *dogapp.Service) error {
				breeds, err := svc.Breeds(ctx)
				if err != nil {
					return err
				}
				if g.asJSON {
					return writeJSON(cmd.OutOrStdout(), breeds)
				}
				for _, b := range breeds {
					fmt.Fprintln(cmd.OutOrStdout(), b)
				}
				return nil
			})
		},
	}
}

type searchFlags struct {
	breeds []string
	zips   []string
	ageMin int
	ageMax int
	sort   string
	size   int
	page   int
}

func newSearchCmd(g *globals) *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search dogs and print one page of results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query, err := f.query(cmd)
			if err != nil {
				return err
			}
			if f.page < 1 {
				return fmt.Errorf("--page must be at least 1, got %d", f.page)
			}
			return g.withService(cmd, func(ctx context.Context, svc *dogapp.Service) error {
				page, err := dogapp.NewController(svc.Catalog(), query).GoToPage(ctx, f.page)
				if err != nil {
					return err
				}
				if g.asJSON {
					return writeJSON(cmd.OutOrStdout(), page)
				}
				return writePage(cmd.OutOrStdout(), page, f.page)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringSliceVar(&f.breeds, "breed", nil, "breed filter, repeatable")
	flags.StringSliceVar(&f.zips, "zip", nil, "zip code filter, repeatable")
	flags.IntVar(&f.ageMin, "age-min", 0, "minimum age")
	flags.IntVar(&f.ageMax, "age-max", 0, "maximum age")
	flags.StringVar(&f.sort, "sort", dogs.DefaultSort.String(), "sort as field:dir, field one of breed, name, age")
	flags.IntVar(&f.size, "size", dogs.DefaultPageSize, "page size (10, 25, 50 or 100)")
	flags.IntVar(&f.page, "page", 1, "page number to show")
	return cmd
}

func (f *searchFlags) query(cmd *cobra.Command) (dogs.SearchQuery, error) {
	sort, err := dogs.ParseSort(f.sort)
	if err != nil {
		return dogs.SearchQuery{}, err
	}
	q := dogs.NewSearchQuery()
	q.Breeds = f.breeds
	q.ZipCodes = f.zips
	q.Sort = sort
	q.PageSize = f.size
	if cmd.Flags().Changed("age-min") {
		q.AgeMin = &f.ageMin
	}
	if cmd.Flags().Changed("age-max") {
		q.AgeMax = &f.ageMax
	}
	q = q.Normalize()
	return q, q.Validate()
}

func newLocationsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "locations ZIP...",
		Short: "Resolve zip codes to places",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withService(cmd, func(ctx context.Context, svc *dogapp.Service) error {
				locations, err := svc.Locations(ctx, args)
				if err != nil {
					return err
				}
				if g.asJSON {
					return writeJSON(cmd.OutOrStdout(), locations)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ZIP\tCITY\tSTATE\tCOUNTY")
				for _, l := range locations {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.ZipCode, l.City, l.State, l.County)
				}
				return w.Flush()
			})
		},
	}
}

func newMatchCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "match DOG_ID...",
		Short: "Generate a match from favorite dog ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withService(cmd, func(ctx context.Context, svc *dogapp.Service) error {
				favorites, err := svc.Catalog().FetchDogs(ctx, args)
				if err != nil {
					return err
				}
				outcome, err := svc.Match(ctx, "cli", favorites)
				if err != nil {
					return err
				}
				if g.asJSON {
					return writeJSON(cmd.OutOrStdout(), outcome.Dog)
				}
				d := outcome.Dog
				fmt.Fprintf(cmd.OutOrStdout(), "Your match: %s (%s, %d, %s) id=%s\n", d.Name, d.Breed, d.Age, d.ZipCode, d.ID)
				return nil
			})
		},
	}
}

// withService logs in, runs fn and logs out. Upstream 401s print a hint.
func (g *globals) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *dogapp.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:  g.logLevel,
		Format: "console",
		Writer: cmd.ErrOrStderr(),
	})
	client, err := shelterclient.NewClient(g.baseURL,
		shelterclient.WithTimeout(g.timeout),
		shelterclient.WithUserAgent("fetchdog"))
	if err != nil {
		return g.report(cmd, err)
	}
	catalog := dogobs.New(dogshelter.NewCatalog(client), dogobs.WithLogger(logger))
	svc := dogapp.NewService(catalog, dogapp.WithLogger(logger))

	if err := svc.Login(ctx, dogapp.LoginInput{Name: g.name, Email: g.email}); err != nil {
		return g.report(cmd, err)
	}
	defer func() {
		if err := svc.Logout(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("logout failed", slog.String("error", err.Error()))
		}
	}()
	return g.report(cmd, fn(ctx, svc))
}

func (g *globals) report(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	out := cmd.ErrOrStderr()
	fmt.Fprintln(out, "error:", err)
	switch {
	case shelterclient.IsUnauthorized(err):
		fmt.Fprintln(out, reloginHint)
	case errors.Is(err, dogapp.ErrInvalidLogin):
		fmt.Fprintln(out, "pass --name and --email, or set FETCHDOG_NAME and FETCHDOG_EMAIL")
	}
	return err
}

func writePage(w io.Writer, page dogapp.Page, requested int) error {
	if requested > page.Number {
		fmt.Fprintf(w, "page %d is past the last page, showing page %d\n", requested, page.Number)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBREED\tAGE\tZIP")
	for _, d := range page.Dogs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", d.ID, d.Name, d.Breed, d.Age, d.ZipCode)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "page %d, %d dogs total", page.Number, page.Total)
	if page.HasNext {
		fmt.Fprintf(w, ", next: --page %d", page.Number+1)
	}
	fmt.Fprintln(w)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
