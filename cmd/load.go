package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/trunk-indexer/internal/call"
	"github.com/sells-group/trunk-indexer/internal/gis"
)

var loadCmd = &cobra.Command{
	Use:   "load [centerline files...]",
	Short: "Load street centerline data into the geometry store",
	Long: `Parses GeoJSON or ESRI shapefile street centerlines and replaces the
geometry store contents. Source attribute names default to name/fromr/tor/
froml/tol and can be overridden with flags or config.

With --talkgroups, also caches a talkgroups CSV for call enrichment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tgFile, _ := cmd.Flags().GetString("talkgroups")
		if len(args) == 0 && tgFile == "" {
			return eris.New("nothing to load: pass centerline files or --talkgroups")
		}

		log := zap.L().With(zap.String("command", "load"))

		if tgFile != "" {
			records, fields, err := call.LoadTalkgroups(cfg.DataDir, tgFile)
			if err != nil {
				return eris.Wrap(err, "load: talkgroups")
			}
			fmt.Printf("Cached %d talkgroups (%d fields)\n", records, fields)
			log.Info("talkgroups cached", zap.Int("records", records))
		}

		if len(args) == 0 {
			return nil
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		opts := gis.LoadOptions{
			StreetName: cfg.Load.StreetName,
			FromR:      cfg.Load.FromR,
			ToR:        cfg.Load.ToR,
			FromL:      cfg.Load.FromL,
			ToL:        cfg.Load.ToL,
		}
		if v, _ := cmd.Flags().GetString("street-name"); v != "" {
			opts.StreetName = v
		}
		if v, _ := cmd.Flags().GetString("fromr"); v != "" {
			opts.FromR = v
		}
		if v, _ := cmd.Flags().GetString("tor"); v != "" {
			opts.ToR = v
		}
		if v, _ := cmd.Flags().GetString("froml"); v != "" {
			opts.FromL = v
		}
		if v, _ := cmd.Flags().GetString("tol"); v != "" {
			opts.ToL = v
		}

		info, err := gis.Load(ctx, store, args, opts)
		if err != nil {
			return eris.Wrap(err, "load")
		}

		if err := writeLoadInfo(info); err != nil {
			return err
		}

		fmt.Printf("Loaded %d streets from %d features\n", info.Streets, info.Features)
		return nil
	},
}

// writeLoadInfo drops a YAML sidecar next to the store so load runs are
// auditable.
func writeLoadInfo(info gis.LoadInfo) error {
	data, err := yaml.Marshal(info)
	if err != nil {
		return eris.Wrap(err, "load: encode load info")
	}
	path := filepath.Join(cfg.DataDir, "loadinfo.yaml")
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return eris.Wrap(err, "load: create data dir")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "load: write load info")
	}
	return nil
}

func init() {
	loadCmd.Flags().String("talkgroups", "", "talkgroups CSV to cache (must have a DEC column)")
	loadCmd.Flags().String("street-name", "", "attribute holding the street name")
	loadCmd.Flags().String("fromr", "", "attribute holding the right-side from number")
	loadCmd.Flags().String("tor", "", "attribute holding the right-side to number")
	loadCmd.Flags().String("froml", "", "attribute holding the left-side from number")
	loadCmd.Flags().String("tol", "", "attribute holding the left-side to number")
	rootCmd.AddCommand(loadCmd)
}
