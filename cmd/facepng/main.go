// Command facepng renders the watchface to a PNG.
package main

import (
	"log/slog"
	"os"
	"time"

	"gitlab.com/greyxor/slogor"
)

func main() {
	slog.SetDefault(slog.New(
		slogor.NewHandler(os.Stderr,
			slogor.SetLevel(slog.LevelInfo),
			slogor.SetTimeFormat(time.DateTime))),
	)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
