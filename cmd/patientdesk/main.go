package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrsinham/patientdesk/cmd/patientdesk/ui"
	"github.com/mrsinham/patientdesk/internal/api"
	"github.com/mrsinham/patientdesk/internal/config"
	"github.com/mrsinham/patientdesk/internal/demohost"
	"github.com/mrsinham/patientdesk/internal/dicom"
	"github.com/mrsinham/patientdesk/internal/dispatch"
	"github.com/mrsinham/patientdesk/internal/logger"
	"github.com/mrsinham/patientdesk/internal/patient"
	"github.com/mrsinham/patientdesk/internal/util"
	"github.com/mrsinham/patientdesk/internal/view"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		host       string
		demo       bool
	)

	root := &cobra.Command{
		Use:           "patientdesk",
		Short:         "Terminal desk for a patient-records host",
		Long:          "patientdesk lists, edits and reports on the patients of a patient-records host.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Host.URL = host
			}
			return runTUI(cmd.Context(), cfg, demo)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./patientdesk.yaml or user config dir)")
	root.Flags().StringVar(&host, "host", "", "Host URL, overrides host.url")
	root.Flags().BoolVar(&demo, "demo", false, "Run against a built-in demo host")

	root.AddCommand(serveDemoCmd(&configPath))
	root.AddCommand(importCmd(&configPath))
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())
	return root
}

func runTUI(ctx context.Context, cfg *config.Config, demo bool) error {
	if _, err := util.ResolveFieldMapping(cfg.DICOM.Fields); err != nil {
		return fmt.Errorf("dicom.fields: %w", err)
	}

	log, closer, err := logger.ForTUI(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if demo {
		ln, err := net.Listen("tcp", cfg.Demo.Addr)
		if err != nil {
			return fmt.Errorf("starting demo host: %w", err)
		}
		router, err := newDemoRouter(cfg, log)
		if err != nil {
			ln.Close()
			return err
		}
		go func() {
			if err := demohost.ServeListener(ctx, ln, router, log); err != nil {
				log.Error().Err(err).Msg("demo host stopped")
			}
		}()
		cfg.Host.URL = "http://" + ln.Addr().String()
	}

	client, err := api.NewClient(cfg.Host.URL, api.WithLogger(log))
	if err != nil {
		return err
	}
	d := dispatch.New(client,
		dispatch.WithContext(ctx),
		dispatch.WithLogger(log),
		dispatch.WithToastDuration(cfg.UI.ToastDuration),
		dispatch.WithStatusRefreshDelay(cfg.UI.StatusRefreshDelay),
		dispatch.WithTheme(view.ParseTheme(cfg.UI.Theme)),
	)

	fields := cfg.DICOM.Fields
	app := ui.New(d, ui.Options{
		HostURL: cfg.Host.URL,
		LogFile: cfg.Log.File,
		Import: func(path string) (patient.Detail, error) {
			return dicom.ImportDemographics(path, fields)
		},
	})

	log.Info().Str("host", cfg.Host.URL).Bool("demo", demo).Msg("patientdesk started")
	return ui.Run(ctx, app)
}

func newDemoRouter(cfg *config.Config, log zerolog.Logger) (*gin.Engine, error) {
	edges, err := cfg.Demo.EdgeCaseConfig()
	if err != nil {
		return nil, err
	}
	gin.SetMode(gin.ReleaseMode)
	store := demohost.NewStore(demohost.Options{
		PublicHost:    cfg.Demo.PublicHost,
		Patients:      cfg.Demo.Patients,
		Seed:          cfg.Demo.Seed,
		ReportFailure: cfg.Demo.ReportFailure,
		EdgeCases:     edges,
		Logger:        log,
	})
	return demohost.NewRouter(store, log), nil
}

func serveDemoCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve-demo",
		Short: "Serve the in-memory demo host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Demo.Addr, _ = flags.GetString("addr")
			}
			if flags.Changed("patients") {
				cfg.Demo.Patients, _ = flags.GetInt("patients")
			}
			if flags.Changed("seed") {
				cfg.Demo.Seed, _ = flags.GetUint64("seed")
			}
			if flags.Changed("report-failure") {
				cfg.Demo.ReportFailure, _ = flags.GetString("report-failure")
			}
			if flags.Changed("edge-cases") {
				cfg.Demo.EdgeCases, _ = flags.GetInt("edge-cases")
			}
			if flags.Changed("edge-case-types") {
				cfg.Demo.EdgeCaseTypes, _ = flags.GetString("edge-case-types")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, true)
			if err != nil {
				return err
			}
			router, err := newDemoRouter(cfg, log)
			if err != nil {
				return err
			}
			return demohost.Serve(cmd.Context(), cfg.Demo.Addr, router, log)
		},
	}
	cmd.Flags().String("addr", "", "Listen address, overrides demo.addr")
	cmd.Flags().Int("patients", 0, "Number of seeded patients, overrides demo.patients")
	cmd.Flags().Uint64("seed", 0, "Seed for reproducible demo data, overrides demo.seed")
	cmd.Flags().String("report-failure", "", "Make every report generation fail with this message")
	cmd.Flags().Int("edge-cases", 0, "Percentage of seeded patients with awkward data (0-100)")
	cmd.Flags().String("edge-case-types", "", "Comma-separated edge case types, or \"all\"")
	return cmd
}

func importCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.dcm>",
		Short: "Print the patient record read from a DICOM file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			d, err := dicom.ImportDemographics(args[0], cfg.DICOM.Fields)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) == 1 {
				path = args[0]
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "patientdesk %s\n", version)
		},
	}
}
