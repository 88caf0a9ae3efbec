package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"symbol-world/internal/engineconfig"
	"symbol-world/internal/layout"
	"symbol-world/internal/logger"
	"symbol-world/internal/scene"
	"symbol-world/internal/sim"
	"symbol-world/internal/store"
	"symbol-world/internal/symbol"
)

func newLayoutCmd() *cobra.Command {
	var (
		treePath string
		steps    int
		dbPath   string
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Lay out a tree without a window and print it with positions",
		Long: `Builds the layout for a symbol tree JSON file, runs the physics for --steps
fixed steps and prints the tree with every symbol's position and rotation. With
--db the result is also saved to the store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := openLog()
			if err != nil {
				return err
			}
			defer log.Close()
			cfg := loadConfig(log)

			data, err := os.ReadFile(treePath)
			if err != nil {
				return err
			}
			root, err := symbol.Parse(string(data))
			if err != nil {
				return err
			}
			if root == nil {
				return fmt.Errorf("%s: %w", treePath, layout.ErrNoTree)
			}

			var st *store.Store
			if dbPath != "" {
				if st, err = store.Open(dbPath, log.Zap()); err != nil {
					return err
				}
				defer st.Close()
			}
			return runLayout(cmd.Context(), cfg, log, root, steps, cmd.OutOrStdout(), st)
		},
	}
	cmd.Flags().StringVar(&treePath, "tree", "", "symbol tree JSON file")
	cmd.Flags().IntVar(&steps, "steps", 120, "physics steps to run before printing")
	cmd.Flags().StringVar(&dbPath, "db", "", "also save the result to this store")
	cmd.MarkFlagRequired("tree")
	return cmd
}

func runLayout(ctx context.Context, cfg engineconfig.Config, log *logger.Logger, root *symbol.Symbol, steps int, out io.Writer, st *store.Store) error {
	b, err := layout.NewBuilder(cfg.Layout, log.Zap())
	if err != nil {
		return err
	}
	l, err := b.Build(ctx, root)
	if err != nil {
		return err
	}

	var result *symbol.Symbol
	s, err := sim.New(sim.Config{
		World: cfg.PhysicsWorld(),
		Scene: scene.New(),
		Saver: sim.SaverFunc(func(r *symbol.Symbol) error { result = r; return nil }),
		Log:   log.Zap(),
	})
	if err != nil {
		return err
	}
	defer s.Dispose()

	s.Show(l)
	for range steps {
		s.Tick()
	}
	if err := s.Persist(); err != nil {
		return err
	}
	log.Infof("laid out %s: %d symbols, %d steps", root.Filename, len(l.Pairs), steps)

	if st != nil {
		if _, err := st.SaveTree(ctx, result); err != nil {
			return err
		}
	}
	text, err := symbol.Marshal(result)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, text)
	return err
}
