// Command spinel-cli is a thin front-end over the spinel host library:
// it opens a serial connection to an NCP, runs a short smoke sequence,
// then prints every frame received on the five broadcast buses until
// interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/twine-rs/spinel-go/pkg/config"
	"github.com/twine-rs/spinel-go/pkg/metrics"
	"github.com/twine-rs/spinel-go/pkg/spinel/host"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	configPath := ""
	for i, a := range os.Args[1:] {
		if a == "-config" || a == "--config" {
			if i+2 < len(os.Args) {
				configPath = os.Args[i+2]
			}
		}
	}

	cfg, err := config.Load(os.Args[1:], configPath)
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		log.Fatalf("config: %v", err)
	}
	if cfg.Port == "" {
		log.Fatal("spinel-cli: --port is required")
	}

	registry := prometheus.NewRegistry()
	collector := metrics.New(registry)
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Printf("metrics server stopped: %v", err)
			}
		}()
		log.Printf("serving metrics on %s", cfg.MetricsAddr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	handle, err := host.OpenSerial(ctx, cfg.Port, cfg.Baud, uint8(cfg.IID), collector)
	cancel()
	if err != nil {
		log.Fatalf("opening %s: %v", cfg.Port, err)
	}
	defer handle.Close()

	if err := runSmokeSequence(handle); err != nil {
		log.Fatalf("smoke sequence failed: %v", err)
	}

	resetCh, unsubReset := handle.SubscribeReset()
	debugCh, unsubDebug := handle.SubscribeDebug()
	netCh, unsubNet := handle.SubscribeNet()
	netInsecureCh, unsubNetInsecure := handle.SubscribeNetInsecure()
	logCh, unsubLog := handle.SubscribeLog()
	defer unsubReset()
	defer unsubDebug()
	defer unsubNet()
	defer unsubNetInsecure()
	defer unsubLog()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	log.Print("listening for broadcasts, press Ctrl-C to exit")
	for {
		select {
		case f := <-resetCh:
			log.Printf("reset: %+v", f)
		case f := <-debugCh:
			log.Printf("debug: %+v", f)
		case f := <-netCh:
			log.Printf("net: %+v", f)
		case f := <-netInsecureCh:
			log.Printf("net-insecure: %+v", f)
		case f := <-logCh:
			log.Printf("log: %+v", f)
		case <-sigCh:
			log.Print("shutting down")
			return
		}
	}
}

func runSmokeSequence(h *host.Handle) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Noop(ctx); err != nil {
		return fmt.Errorf("noop: %w", err)
	}
	log.Print("noop ok")

	if err := h.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	log.Print("reset sent")

	version, err := h.ControllerVersion(ctx)
	if err != nil {
		return fmt.Errorf("controller version: %w", err)
	}
	log.Printf("controller version: %s", version)
	return nil
}
