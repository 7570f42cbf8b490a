package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/onboarding-wizard/internal/config"
	"github.com/jonathan/onboarding-wizard/internal/directory"
	"github.com/jonathan/onboarding-wizard/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		port             int
		storage          string
		sqlitePath       string
		directoryFile    string
		resetAfterSubmit bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start an HTTP server that exposes the onboarding wizard as a REST API.

Endpoints:
  GET    /health                          Health check
  GET    /departments                     List departments
  GET    /departments/{name}              Skills and managers of a department
  GET    /departments/{name}/skills       Skill options
  GET    /departments/{name}/managers     Manager candidates (?q= narrows by name)
  POST   /sessions                        Start a wizard session
  GET    /sessions/{id}                   Session state
  DELETE /sessions/{id}                   Discard a session
  POST   /sessions/{id}/steps/{step}      Validate and store a step
  POST   /sessions/{id}/steps/{step}/check  Validate a step without storing it
  POST   /sessions/{id}/back              Previous step
  POST   /sessions/{id}/next              Next step
  POST   /sessions/{id}/goto              Jump to a visited step
  POST   /sessions/{id}/reset             Clear the session
  POST   /sessions/{id}/submit            Confirm and submit
  GET    /submissions                     Recent submissions`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("storage") {
				cfg.Storage = storage
			}
			if flags.Changed("sqlite-path") {
				cfg.SQLitePath = sqlitePath
			}
			if flags.Changed("directory-file") {
				cfg.DirectoryFile = directoryFile
			}
			if flags.Changed("reset-after-submit") {
				cfg.ResetAfterSubmit = resetAfterSubmit
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd, cfg, opts.logger)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "Port to listen on")
	cmd.Flags().StringVar(&storage, "storage", config.DefaultStorage, "Storage backend (memory, sqlite, postgres)")
	cmd.Flags().StringVar(&sqlitePath, "sqlite-path", config.DefaultSQLitePath, "SQLite database file")
	cmd.Flags().StringVar(&directoryFile, "directory-file", "", "YAML directory seed file")
	cmd.Flags().BoolVar(&resetAfterSubmit, "reset-after-submit", false, "Clear sessions once submitted")
	return cmd
}

func runServe(cmd *cobra.Command, cfg config.Config, logger *zap.Logger) error {
	st, dbDirectory, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	var provider directory.Provider = dbDirectory
	if provider == nil || cfg.DirectoryFile != "" {
		static, err := loadDirectory(cfg)
		if err != nil {
			_ = st.Close()
			return err
		}
		provider = static
	}

	logger.Info("starting server",
		zap.Int("port", cfg.Port),
		zap.String("storage", cfg.Storage),
		zap.Bool("reset_after_submit", cfg.ResetAfterSubmit),
	)

	srv, err := server.New(server.Config{
		Port:             cfg.Port,
		Store:            st,
		Directory:        provider,
		Logger:           logger,
		ResetAfterSubmit: cfg.ResetAfterSubmit,
	})
	if err != nil {
		_ = st.Close()
		return err
	}

	return srv.Start()
}
