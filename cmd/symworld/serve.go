package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"symbol-world/internal/bridge"
	"symbol-world/internal/logger"
	"symbol-world/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		addr     string
		treePath string
		dbPath   string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Act as a host for viewers connecting over a websocket",
		Long: `Listens for viewers at ws://<addr>/bridge. Each viewer that connects is sent
the tree in --tree and its stored camera; the trees and camera poses it reports
are kept in the store and everything else is logged. Meant for developing host
integrations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := openLog()
			if err != nil {
				return err
			}
			defer log.Close()
			cfg := loadConfig(log)
			if addr != "" {
				cfg.ServeAddr = addr
			}
			if dbPath != "" {
				cfg.StorePath = dbPath
			}

			st, err := store.Open(cfg.StorePath, log.Zap())
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			rec := bridge.NewRecorder(st, log.Zap())
			return bridge.Serve(ctx, cfg.ServeAddr, func(ws *bridge.WebSocket) {
				hostViewer(ctx, ws, rec, treePath, log)
			}, log.Zap())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides the config)")
	cmd.Flags().StringVar(&treePath, "tree", "", "symbol tree JSON file sent to each viewer")
	cmd.Flags().StringVar(&dbPath, "db", "", "store path (overrides the config)")
	return cmd
}

// hostViewer records what ws reports and sends it the tree, if there is one.
func hostViewer(ctx context.Context, ws *bridge.WebSocket, rec *bridge.Recorder, treePath string, log *logger.Logger) {
	ws.OnMessage(func(m bridge.Message) {
		if err := rec.Record(ctx, m); err != nil {
			log.Warnf("%s: %v", m.Command(), err)
		}
	})
	if treePath == "" {
		return
	}
	data, err := os.ReadFile(treePath)
	if err != nil {
		log.Warnf("read tree: %v", err)
		return
	}
	text, restore := rec.Open(ctx, string(data))
	if err := ws.PostMessage(bridge.ShowSymbolTree{Value: text}); err != nil {
		log.Warnf("send tree: %v", err)
		return
	}
	if restore != nil {
		if err := ws.PostMessage(*restore); err != nil {
			log.Warnf("send camera: %v", err)
		}
	}
}
