// cmd/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tellor-io/layer-profitability-checker/internal/checker"
	"github.com/tellor-io/layer-profitability-checker/internal/config"
	"github.com/tellor-io/layer-profitability-checker/internal/display"
	"github.com/tellor-io/layer-profitability-checker/internal/export"
	"github.com/tellor-io/layer-profitability-checker/internal/rpc"
	"github.com/tellor-io/layer-profitability-checker/internal/types"
	"github.com/tellor-io/layer-profitability-checker/internal/watch"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	window := flag.Int("window", 0, "override the block sampling window")
	watchMode := flag.Bool("watch", false, "stream live block times instead of running a full check")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *window > 0 {
		cfg.BlockWindow = *window
		cfg.MintWindow = *window
		cfg.FeeWindow = *window
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *watchMode {
		if err := runWatch(ctx, cfg); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
		return
	}

	client := rpc.NewClient(cfg.RPCEndpoint, cfg.RESTEndpoint)
	res, err := checker.Run(ctx, cfg, client)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	display.Report(res)

	if cfg.CSVDir != "" {
		if err := export.WriteCSV(cfg.CSVDir, res); err != nil {
			log.Printf("WARN: csv export failed: %v", err)
		} else {
			log.Printf("csv artifacts written to %s", cfg.CSVDir)
		}
	}

	if cfg.KafkaBroker != "" && cfg.KafkaTopic != "" {
		publisher, err := export.NewPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		if err != nil {
			log.Printf("WARN: kafka publisher unavailable: %v", err)
		} else {
			defer publisher.Close()
			if err := publisher.PublishSnapshot(res); err != nil {
				log.Printf("WARN: kafka publish failed: %v", err)
			}
		}
	}
}

// runWatch streams live blocks and prints the interval between each
// consecutive pair until interrupted.
func runWatch(ctx context.Context, cfg *config.Config) error {
	watcher := watch.NewBlockWatcher(cfg.RPCEndpoint)
	blocks := make(chan types.BlockSample, 16)

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Watch(ctx, blocks)
	}()

	var prev *types.BlockSample
	for sample := range blocks {
		if prev != nil {
			interval := sample.Time.Sub(prev.Time).Seconds()
			fmt.Printf("block %d  %s  +%.2fs\n", sample.Height, sample.Time.Format("15:04:05"), interval)
		} else {
			fmt.Printf("block %d  %s\n", sample.Height, sample.Time.Format("15:04:05"))
		}
		s := sample
		prev = &s
	}
	return <-errCh
}
