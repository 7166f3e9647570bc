package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/techagentng/civilink/config"
	"github.com/techagentng/civilink/db"
	"github.com/techagentng/civilink/logger"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "civilink",
	Short:         "CiviLink civic complaint service",
	Long:          "Report, browse, like and comment on local civic complaints.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, seedCmd, passwordCmd)
}

// Execute runs the root command. serve is the default.
func Execute() error {
	return rootCmd.Execute()
}

type app struct {
	conf   *config.Config
	logger *zap.Logger
	store  *db.Store
}

func bootstrap() (*app, error) {
	conf, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(conf.Debug)
	if err != nil {
		return nil, errors.Wrap(err, "init logger")
	}
	store, err := db.Open(conf, log)
	if err != nil {
		_ = log.Sync()
		return nil, errors.Wrap(err, "open store")
	}
	return &app{conf: conf, logger: log, store: store}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing store", zap.Error(err))
	}
	_ = a.logger.Sync()
}
