package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/trunk-indexer/internal/parser"
)

var locateCmd = &cobra.Command{
	Use:   "locate [transcript]",
	Short: "Extract locations from a transcript",
	Long: `Scans a transcript for spoken addresses and intersections and prints the
geocoded results, best first. Reads from stdin when no transcript argument is
given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		transcript := strings.Join(args, " ")
		if transcript == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return eris.Wrap(err, "locate: read stdin")
			}
			transcript = strings.TrimSpace(string(data))
		}
		if transcript == "" {
			return eris.New("locate: empty transcript")
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := parser.New(ctx, store)
		if err != nil {
			return err
		}

		locs, err := p.Locations(ctx, transcript)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(locs)
		}

		if len(locs) == 0 {
			fmt.Println("No locations found")
			return nil
		}
		for _, loc := range locs {
			fmt.Printf("%-30s %f, %f  (score %d)\n", loc.Value, loc.Point.Lat, loc.Point.Lon, loc.Score())
		}
		return nil
	},
}

func init() {
	locateCmd.Flags().Bool("json", false, "print locations as JSON")
	rootCmd.AddCommand(locateCmd)
}
