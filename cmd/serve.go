package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/techagentng/civilink/server"
	"github.com/techagentng/civilink/services"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	imageStore, err := services.NewImageStore(ctx, a.conf)
	if err != nil {
		return err
	}
	mediaService := services.NewMediaService(imageStore, a.logger)
	mailer := services.NewMailer(a.conf, a.logger)
	sessions := services.NewSessionContext(a.store.Sessions, a.conf)

	authService, err := services.NewAuthService(sessions, mailer, a.conf, a.logger)
	if err != nil {
		return err
	}
	complaintService := services.NewComplaintService(a.store.Complaints, mediaService, a.conf, a.logger)

	if a.conf.SeedDemo {
		if _, err := complaintService.Seed(ctx); err != nil {
			a.logger.Error("seeding demo complaints", zap.Error(err))
		}
	}

	s := &server.Server{
		Config:           a.conf,
		Logger:           a.logger,
		AuthService:      authService,
		Sessions:         sessions,
		ComplaintService: complaintService,
	}
	return s.Start()
}
