// Package main provides the staticpress binary entry point: a small
// publishing server that loads a markdown corpus into memory and serves it
// over a read-only JSON API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	staticpress "github.com/staticpress/staticpress"
)

const appName = "staticpress"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Serve a markdown content directory as a JSON read API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	cmd.AddCommand(serveCmd(&configPath))
	cmd.AddCommand(loadCmd(&configPath))
	cmd.AddCommand(sampleCmd(&configPath))

	return cmd
}

func loadConfig(configPath string) (staticpress.Config, error) {
	if configPath == "" {
		return staticpress.DefaultConfig(), nil
	}
	return staticpress.ConfigFromFile(configPath)
}

func serveCmd(configPath *string) *cobra.Command {
	var addr string
	var root string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the content directory and serve the read API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if root != "" {
				cfg.Content.Root = root
			}
			if watch {
				cfg.Watch.Enabled = true
			}

			module, err := staticpress.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := module.Load(ctx); err != nil {
				return err
			}

			if cfg.Watch.Enabled {
				go func() {
					if err := module.Watch(ctx); err != nil {
						fmt.Fprintf(os.Stderr, "watch: %v\n", err)
					}
				}()
			}

			server := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           module.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()
			fmt.Printf("%s listening on %s\n", appName, cfg.Server.Addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&root, "root", "", "content directory (overrides config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload when the content directory changes")

	return cmd
}

func loadCmd(configPath *string) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Run a single load pass and report what was indexed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if root != "" {
				cfg.Content.Root = root
			}

			module, err := staticpress.New(cfg)
			if err != nil {
				return err
			}
			if err := module.Load(cmd.Context()); err != nil {
				return err
			}

			svc := module.Content()
			fmt.Printf("loaded %d articles, %d collections, %d groups, %d tags\n",
				len(svc.Articles()), len(svc.Collections()), len(svc.Groups()), len(svc.Tags()))
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "content directory (overrides config)")

	return cmd
}

func sampleCmd(configPath *string) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Seed an empty content directory with sample articles and a group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if root != "" {
				cfg.Content.Root = root
			}
			cfg.Content.Bootstrap = true

			module, err := staticpress.New(cfg)
			if err != nil {
				return err
			}
			if err := module.Load(cmd.Context()); err != nil {
				return err
			}

			fmt.Printf("sample content written to %s\n", cfg.Content.Root)
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "content directory (overrides config)")

	return cmd
}
