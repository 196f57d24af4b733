package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/calendar-prereqs/internal/api"
	"github.com/pfrederiksen/calendar-prereqs/internal/catalog"
	"github.com/pfrederiksen/calendar-prereqs/internal/config"
	"github.com/pfrederiksen/calendar-prereqs/internal/logger"
	"github.com/pfrederiksen/calendar-prereqs/internal/scraper"
	"github.com/pfrederiksen/calendar-prereqs/internal/search"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig       string
	flagDirectoryURL string
	flagFormat       string
	flagVerbose      bool

	flagSubjectURL  string
	flagSubjectName string
	flagCourseName  string
	flagNumber      string
	flagSort        string
	flagAddr        string
)

// app is the state shared by subcommands once the root pre-run has loaded config
var app struct {
	cfg    *config.Config
	svc    *search.Service
	format OutputFormat
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar-prereqs",
		Short: "Query a university course calendar for subjects, courses and prerequisites",
		Long: `A CLI tool for a university course calendar.
Lists subjects and their courses, and finds every course whose prerequisites
name a given course by scanning all subject pages.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: reportMetrics,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "Path to a TOML config file")
	flags.StringVar(&flagDirectoryURL, "directory-url", "", "Calendar directory page URL (overrides config)")
	flags.StringVar(&flagFormat, "format", "text", "Output format: text or json")
	flags.BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and print metrics")

	cmd.AddCommand(
		newSubjectsCmd(),
		newCoursesCmd(),
		newSearchCmd(),
		newSearchSubjectCmd(),
		newServeCmd(),
		newConfigCmd(),
	)

	return cmd
}

// setup loads configuration and builds the search service
func setup(cmd *cobra.Command, args []string) error {
	format := OutputFormat(flagFormat)
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagDirectoryURL != "" {
		cfg.DirectoryURL = flagDirectoryURL
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}

	client := scraper.New(cfg.UserAgent, timeout)
	app.cfg = cfg
	app.format = format
	app.svc = search.New(client, search.Options{
		DirectoryURL:     cfg.DirectoryURL,
		ExcludedSubjects: cfg.ExcludedSubjects,
		Workers:          cfg.Workers,
	})

	logger.Debug("Configured", logger.Fields{
		"directory_url": cfg.DirectoryURL,
		"workers":       cfg.Workers,
		"fetch_timeout": timeout.String(),
	})

	return nil
}

func reportMetrics(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.Debug("Metrics", logger.Fields{"snapshot": logger.GetMetricsSnapshot()})
	}
	return nil
}

func newSubjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List the subjects linked from the calendar directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects, err := app.svc.Subjects(cmd.Context())
			if err != nil {
				return err
			}
			return WriteSubjects(cmd.OutOrStdout(), subjects, app.format)
		},
	}
}

func newCoursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List the courses on one subject page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			heading := flagSubjectURL
			var courses []catalog.Course
			var err error
			if flagSubjectName != "" {
				heading = flagSubjectName
				courses, err = app.svc.SubjectCourses(ctx, flagSubjectName)
			} else {
				courses, err = app.svc.Courses(ctx, flagSubjectURL)
			}
			if err != nil {
				return err
			}
			return WriteCourses(cmd.OutOrStdout(), heading, courses, app.format)
		},
	}

	cmd.Flags().StringVar(&flagSubjectURL, "url", "", "Subject page URL")
	cmd.Flags().StringVar(&flagSubjectName, "subject", "", "Subject name as listed in the directory")
	cmd.MarkFlagsOneRequired("url", "subject")
	cmd.MarkFlagsMutuallyExclusive("url", "subject")

	return cmd
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find courses in every subject that require a course",
		Example: `  calendar-prereqs search --name "Computer Science" --number 331
  calendar-prereqs search --name Mathematics --number 271 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order := SortOrder(flagSort)
			if !order.Valid() {
				return fmt.Errorf("invalid sort: %s (must be 'subject', 'number' or 'name')", flagSort)
			}

			matches, err := app.svc.SearchAll(cmd.Context(), flagCourseName, flagNumber)
			if err != nil {
				return err
			}
			sortMatches(matches, order)

			return WriteMatches(cmd.OutOrStdout(), newMatchResult(flagCourseName, flagNumber, "", matches), app.format)
		},
	}

	cmd.Flags().StringVar(&flagCourseName, "name", "", "Course name as written in prerequisites, e.g. \"Computer Science\" (required)")
	cmd.Flags().StringVar(&flagNumber, "number", "", "Course number, e.g. 331 (required)")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortBySubject), "Sort order: subject, number or name")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("number")

	return cmd
}

func newSearchSubjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search-subject",
		Short: "Find courses within one subject that require one of its courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := app.svc.SearchSubject(cmd.Context(), flagSubjectName, flagNumber)
			if err != nil {
				return err
			}
			return WriteMatches(cmd.OutOrStdout(), newMatchResult(flagSubjectName, flagNumber, flagSubjectName, matches), app.format)
		},
	}

	cmd.Flags().StringVar(&flagSubjectName, "subject", "", "Subject name as listed in the directory (required)")
	cmd.Flags().StringVar(&flagNumber, "number", "", "Course number within the subject (required)")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("number")

	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar queries as a JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := flagAddr
			if addr == "" {
				addr = app.cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return api.New(app.svc).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (defaults to the config server.addr)")

	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
