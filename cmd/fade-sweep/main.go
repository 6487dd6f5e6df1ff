// Command fade-sweep runs the image search over a grid of scale and
// branching settings in parallel and prints how each one fared.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"image-fade/internal/imageio"
	"image-fade/pkg/field"
)

func main() {
	var (
		input, output string
		fit           bool
		noise         int
		blobs         int
		seed          int64
		scales        []int
		branchings    []int
		bidi          bool
		opts          sweepOptions
		metricsAddr   string
		logLevel      string
	)
	pflag.StringVarP(&input, "input", "i", "", "start image")
	pflag.StringVarP(&output, "output", "o", "", "goal image")
	pflag.BoolVar(&fit, "fit", false, "resize the goal image to the start image size")
	pflag.IntVar(&noise, "noise", 0, "sweep over two random NxN fields instead of images")
	pflag.IntVar(&blobs, "blobs", 0, "with --noise, draw this many soft discs instead of uniform noise")
	pflag.Int64Var(&seed, "seed", 1, "seed for --noise")
	pflag.IntSliceVar(&scales, "scales", []int{1, 2, 4}, "sampling strides to try")
	pflag.IntSliceVar(&branchings, "branchings", []int{1, 3, 5}, "branching factors to try")
	pflag.BoolVar(&bidi, "bidirectional", false, "also run the bidirectional search for every setting")
	pflag.IntVar(&opts.workers, "workers", runtime.NumCPU(), "number of concurrent searches")
	pflag.IntVar(&opts.budget, "budget", 800, "nodes expanded per step")
	pflag.IntVar(&opts.maxNodes, "max-nodes", 200000, "stop a search after this many expanded nodes")
	pflag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "wall clock limit per search")
	pflag.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9100")
	pflag.StringVar(&logLevel, "log-level", "warn", "log level")
	pflag.Parse()

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(log)
	opts.logger = log

	var start, goal *field.Field
	var err error
	switch {
	case noise > 0 && blobs > 0:
		start, goal = field.Blobs(noise, noise, blobs, seed), field.Blobs(noise, noise, blobs, seed+1)
	case noise > 0:
		start, goal = field.Noise(noise, noise, 255, seed), field.Noise(noise, noise, 255, seed+1)
	case input != "" && output != "":
		start, goal, err = imageio.LoadPair(input, output, fit)
	default:
		err = errors.New("either --noise or both --input and --output are required")
	}
	if err != nil {
		log.Error("load fields", "err", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", "err", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info("serving metrics", "addr", metricsAddr)
	}

	jobs := grid(scales, branchings, bidi)
	fmt.Printf("Sweeping %d settings on %dx%d (%d workers, budget %d, max %d nodes)\n",
		len(jobs), start.W, start.H, opts.workers, opts.budget, opts.maxNodes)

	began := time.Now()
	results, err := sweep(ctx, start, goal, jobs, opts)
	if err != nil {
		log.Error("sweep failed", "err", err)
		os.Exit(1)
	}
	rank(results)
	fmt.Println(renderTable(results))
	fmt.Printf("elapsed %s\n", time.Since(began).Round(time.Millisecond))
}
