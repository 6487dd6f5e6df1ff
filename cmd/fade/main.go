// Command fade morphs one grayscale image into another and writes the
// frames as an animated GIF.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"image-fade/internal/termui"
	_ "image-fade/internal/transitions/astar"
	_ "image-fade/internal/transitions/iterative"
)

var (
	logLevel string

	rootCmd = &cobra.Command{
		Use:           "fade",
		Short:         "Morph one image into another",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	rootCmd.AddCommand(newRunCmd(), newListCmd())
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("bad --log-level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, termui.Styles.Error.Render("error: ")+err.Error())
		os.Exit(1)
	}
}
