// main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/driftdrop/driftdrop/internal/config"
	"github.com/driftdrop/driftdrop/internal/signaling"
	"github.com/driftdrop/driftdrop/internal/util"
)

var (
	dirFlag = flag.String("dir", ".", "Working directory for the config file")
	cfgFlag = flag.String("config", "driftdrop.json", "Config file path (relative to -dir)")
	version = flag.Bool("version", false, "Show version")
)

// appVersion is set at build time via -ldflags "-X main.appVersion=x.y.z"
var appVersion = "dev"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("driftdrop v%s\n", appVersion)
		return
	}

	cfgPath := util.ResolvePath(*dirFlag, *cfgFlag)
	cfg, created, err := config.Ensure(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if created {
		log.Printf("created default config: %s", cfgPath)
	}

	// PORT wins over the config file.
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("config: %v", err)
	}

	srv := signaling.New(cfg)

	// Tee logs into the ring buffer backing /logs.json.
	log.SetOutput(io.MultiWriter(os.Stderr, srv.Logs()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("start signaling server: %v", err)
	}
	log.Printf("driftdrop listening on %s (webrtc: /server/webrtc, fallback: /server/fallback)", srv.URL())

	// Exit promptly on SIGINT/SIGTERM; clients reconnect, nothing drains.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("received %s, exiting", sig)
}
