// Command galleryd serves gallery sessions over WebSocket at
// /ws?exhibition=<id>&locale=<tag>. Exhibitions come from the backend API
// when -api is set, otherwise from the exhibitions directory; templates are
// reloaded from the templates directory as they change.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gallery-engine/internal/backend"
	"gallery-engine/internal/catalog"
	"gallery-engine/internal/config"
	"gallery-engine/internal/navigation"
	"gallery-engine/internal/remote"
	"gallery-engine/internal/session"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	dataDir := flag.String("data", "", "Path to base directory (default: auto-detect)")
	apiURL := flag.String("api", "", "Backend base URL (default: serve exhibitions from <data>/exhibitions)")
	listen := flag.String("listen", "", "Listen address (default: :8080)")
	locale := flag.String("locale", "", "Default content language")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	var cfg config.Config
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.Resolve(config.Flags{DataDir: *dataDir, APIURL: *apiURL, Listen: *listen, Locale: *locale})

	if err := run(cfg, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	templates, err := catalog.Open(cfg.TemplateDir, log)
	if err != nil {
		return err
	}
	go func() {
		err := templates.Watch(ctx, 0, func(err error) {
			if err == nil {
				log.Info("galleryd: templates reloaded", "count", len(templates.IDs()))
			}
		})
		if err != nil {
			log.Warn("galleryd: template watch stopped", "err", err)
		}
	}()

	var source remote.Source = remote.DirSource(cfg.ExhibitionDir)
	var dispatcher *backend.Dispatcher
	if cfg.APIURL != "" {
		client, err := backend.NewClient(cfg.APIURL, cfg.APIToken, nil)
		if err != nil {
			return err
		}
		source = client
		dispatcher = backend.NewDispatcher(client, backend.DispatcherOptions{Logger: log})
	}

	hcfg := remote.HandlerConfig{
		Source:    source,
		Templates: templates,
		Session: session.Options{
			Navigation: navigation.Options{
				CaptureDelay: cfg.CaptureDelay,
				Speed:        cfg.MoveSpeed,
				PointerSpeed: cfg.PointerSpeed,
			},
		},
		Logger: log,
	}
	if dispatcher != nil {
		hcfg.Outbound = dispatcher
	}
	ws := remote.NewHandler(hcfg)

	mux := http.NewServeMux()
	mux.Handle("/ws", ws)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{
			"sessions":  ws.Active(),
			"templates": len(templates.IDs()),
		}
		if dispatcher != nil {
			sent, failed, dropped := dispatcher.Stats()
			status["backend"] = map[string]int64{"sent": sent, "failed": failed, "dropped": dropped}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("galleryd: listening", "addr", cfg.ListenAddr, "templates", len(templates.IDs()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("galleryd: shutting down")
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		log.Warn("galleryd: shutdown", "err", err)
	}
	if dispatcher != nil {
		if err := dispatcher.Close(shutdown); err != nil {
			log.Warn("galleryd: backend flush", "err", err)
		}
	}
	return nil
}
