package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"linkedout/internal/app"
	"linkedout/internal/navigation"
	"linkedout/internal/repo"
)

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the development API server",
		Long:  "Serves the LinkedOut REST API from the workspace database. Set server.jwt_secret (or LINKEDOUT_JWT_SECRET) to keep tokens valid across restarts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("base-path") {
				cfg.Server.BasePath = basePath
			}
			if s := viper.GetString("jwt_secret"); s != "" {
				cfg.Server.JWTSecret = s
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()
			conn, err := app.OpenDB(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			defer conn.Close()
			backend, err := app.NewBackend(conn, cfg.Server, log.Named("server"))
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: cfg.Server.Addr, Handler: backend.Handler, ReadHeaderTimeout: 10 * time.Second}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			log.Info("serving", zap.String("addr", cfg.Server.Addr), zap.String("base_path", cfg.Server.BasePath))
			fmt.Printf("Serving LinkedOut API on %s%s (OpenAPI at %s/openapi.json)\n", app.PublicURL(cfg.Server), cfg.Server.BasePath, cfg.Server.BasePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/api", "API base path")
	return cmd
}

func eventsCmd() *cobra.Command {
	var n int
	var evtType, entityKind, entityID string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail the development server's audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := app.OpenDB(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			defer conn.Close()
			events, err := repo.Repo{DB: conn}.LatestEvents(cmd.Context(), n, evtType, entityKind, entityID)
			if err != nil {
				return err
			}
			return render(events, func(tw table.Writer) {
				tw.AppendHeader(table.Row{"ID", "Time", "Type", "Entity", "Actor", "Payload"})
				for _, e := range events {
					tw.AppendRow(table.Row{e.ID, e.TS, e.Type, e.EntityKind + ":" + e.EntityID, e.ActorID, e.Payload})
				}
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&evtType, "type", "", "event type filter")
	cmd.Flags().StringVar(&entityKind, "entity-kind", "", "entity kind")
	cmd.Flags().StringVar(&entityID, "entity-id", "", "entity id")
	return cmd
}

func routesCmd() *cobra.Command {
	var resolve string
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List app routes or resolve a path against them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if resolve != "" {
				d, err := navigation.Default().Resolve(resolve)
				if err != nil {
					return err
				}
				return render(d, func(tw table.Writer) {
					tw.AppendHeader(table.Row{"Route", "Param", "Value"})
					if len(d.Params) == 0 {
						tw.AppendRow(table.Row{d.Route.Pattern, "", ""})
					}
					for _, p := range d.Route.Params {
						tw.AppendRow(table.Row{d.Route.Pattern, p.Name, d.Params[p.Name]})
					}
				})
			}
			return render(navigation.All, func(tw table.Writer) {
				tw.AppendHeader(table.Row{"Name", "Pattern", "Params"})
				for _, r := range navigation.All {
					tw.AppendRow(table.Row{r.Name(), r.Pattern, len(r.Params)})
				}
			})
		},
	}
	cmd.Flags().StringVar(&resolve, "resolve", "", "path to resolve, e.g. job_details/42")
	return cmd
}
