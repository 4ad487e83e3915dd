package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/trunk-indexer/internal/call"
	"github.com/sells-group/trunk-indexer/internal/indexer"
	"github.com/sells-group/trunk-indexer/internal/parser"
	"github.com/sells-group/trunk-indexer/internal/stt"
)

var indexCmd = &cobra.Command{
	Use:   "index [wav files...]",
	Short: "Add call recordings to OpenSearch",
	Long: `Indexes call recordings and their trunk-recorder call logs. With
--transcribe, each call is also run through speech-to-text and the transcript
scanned for addresses and intersections; the best location is stored on the
document as detected_address and a geo_point.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		baseURL, _ := cmd.Flags().GetString("baseurl")
		transcribe, _ := cmd.Flags().GetBool("transcribe")

		idx, err := indexer.New(ctx, indexer.Options{
			Addresses:    cfg.Search.Addresses,
			Username:     cfg.Search.Username,
			Password:     cfg.Search.Password,
			IndexPattern: cfg.Search.IndexPattern,
			RatePerSec:   cfg.Index.RatePerSec,
			RateBurst:    cfg.Index.RateBurst,
		})
		if err != nil {
			return err
		}

		var p *parser.Parser
		var transcriber stt.Transcriber
		if transcribe {
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			p, err = parser.New(ctx, store)
			if err != nil {
				return err
			}
			transcriber = stt.NewClient(stt.Options{
				BaseURL: cfg.STT.BaseURL,
				Timeout: time.Duration(cfg.STT.TimeoutSecs) * time.Second,
			})
		}

		log := zap.L().With(zap.String("command", "index"))

		workers := cfg.Index.Workers
		if workers <= 0 {
			workers = 4
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, wavPath := range args {
			wavPath := wavPath
			g.Go(func() error {
				if err := gCtx.Err(); err != nil {
					return err
				}
				if err := indexOne(gCtx, idx, p, transcriber, wavPath, baseURL); err != nil {
					return eris.Wrapf(err, "index %s", wavPath)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		fmt.Printf("Indexed %d calls\n", len(args))
		log.Info("index complete", zap.Int("calls", len(args)))
		return nil
	},
}

// indexOne stores a call, then enriches and re-stores it when transcription
// is on. The first put makes the raw call searchable even if STT fails.
func indexOne(ctx context.Context, idx *indexer.Indexer, p *parser.Parser, transcriber stt.Transcriber, wavPath, baseURL string) error {
	c, err := call.Load(wavPath, call.Options{BaseURL: baseURL, DataDir: cfg.DataDir})
	if err != nil {
		return err
	}

	if _, err := idx.Put(ctx, c); err != nil {
		return err
	}
	if transcriber == nil {
		return nil
	}

	audio, err := c.Audio()
	if err != nil {
		return err
	}
	transcript, err := transcriber.Transcribe(ctx, audio)
	_ = audio.Close()
	if err != nil {
		return err
	}
	c.Set("transcript", transcript)

	locs, err := p.Locations(ctx, transcript)
	if err != nil {
		return err
	}
	if len(locs) > 0 {
		c.Set("detected_address", locs[0].Value)
		c.Set("location", locs[0].Point)
	}

	_, err = idx.Put(ctx, c)
	return err
}

func init() {
	indexCmd.Flags().String("baseurl", "", "base url where the wav files are served")
	indexCmd.Flags().Bool("transcribe", false, "transcribe the recording and detect locations")
	rootCmd.AddCommand(indexCmd)
}
