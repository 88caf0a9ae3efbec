package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"symbol-world/internal/bridge"
	"symbol-world/internal/store"
	"symbol-world/internal/viewer"
)

func newViewCmd() *cobra.Command {
	var (
		treePath string
		wsURL    string
		dbPath   string
		headless bool
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the viewer on a tree file or a host websocket",
		Long: `Opens the 3D view. With --tree the viewer watches a symbol tree JSON file and
keeps its layout and camera in the local store. With --ws it connects to a host
that sends trees and stores what the viewer reports.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := openLog()
			if err != nil {
				return err
			}
			defer log.Close()
			cfg := loadConfig(log)
			if wsURL != "" {
				cfg.BridgeURL = wsURL
			}
			if dbPath != "" {
				cfg.StorePath = dbPath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var host bridge.HostBridge
			var closed <-chan struct{}
			switch {
			case cfg.BridgeURL != "":
				ws, err := bridge.Dial(ctx, cfg.BridgeURL, log.Zap())
				if err != nil {
					return err
				}
				host, closed = ws, ws.Done()
			case treePath != "":
				st, err := store.Open(cfg.StorePath, log.Zap())
				if err != nil {
					return err
				}
				defer st.Close()
				f, err := bridge.WatchFile(treePath, st, log.Zap())
				if err != nil {
					return err
				}
				host = f
			default:
				return errors.New("view needs --tree or --ws")
			}
			defer host.Close()

			v, err := viewer.New(cfg, host, log, !headless)
			if err != nil {
				return err
			}
			defer v.Close()

			g, ctx := errgroup.WithContext(ctx)
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			if closed != nil {
				g.Go(func() error {
					select {
					case <-closed:
						log.Infof("host disconnected")
						cancel()
					case <-ctx.Done():
					}
					return nil
				})
			}
			if headless {
				g.Go(func() error {
					if err := v.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						return err
					}
					return nil
				})
			} else {
				v.RunWindow(ctx)
				cancel()
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&treePath, "tree", "", "symbol tree JSON file to watch")
	cmd.Flags().StringVar(&wsURL, "ws", "", "host websocket URL, e.g. ws://localhost:8765/bridge")
	cmd.Flags().StringVar(&dbPath, "db", "", "store path (overrides the config)")
	cmd.Flags().BoolVar(&headless, "headless", false, "run without a window")
	return cmd
}
