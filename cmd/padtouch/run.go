package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/frudas24/padtouch/internal/app"
	"github.com/frudas24/padtouch/internal/config"
	"github.com/frudas24/padtouch/internal/keys"
	"github.com/frudas24/padtouch/internal/session"
	"github.com/frudas24/padtouch/internal/signaling"
	"github.com/frudas24/padtouch/internal/skinpack"
	"github.com/frudas24/padtouch/internal/webrtc"
)

// run wires the application and blocks until shutdown.
func run(debug bool, dataDir string) error {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return err
	}
	webrtc.SetDebugLogging(debug)
	if debug {
		log.Printf("debug: enabled")
	}
	logStartup(cfg)

	kb, err := keys.New()
	if err != nil {
		log.Printf("aux keys: disabled (%v)", err)
		cfg.AuxKeys = false
	}

	sess := session.New(cfg.UIPassword)
	appInstance, err := app.New(cfg, sess, kb, signaling.ControllerReplace)
	if err != nil {
		return err
	}
	if err := appInstance.Start(); err != nil {
		return err
	}
	defer func() {
		if err := appInstance.Stop(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, "")
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		appInstance.Run(ctx)
	}()
	defer workers.Wait()

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		stop()
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// logFatal prints and exits for startup failures.
func logFatal(err error) {
	log.Printf("fatal: %v", err)
	os.Exit(1)
}

// logStartup prints startup checks and connection info.
func logStartup(cfg config.Config) {
	log.Printf("padtouch starting")
	logEnvStatus(cfg)
	logSkinStatus(cfg)
	logListenStatus(cfg.ListenAddr)
}

// logEnvStatus reports whether a .env file was found.
func logEnvStatus(cfg config.Config) {
	envPath := filepath.Join(cfg.DataDir, ".env")
	if fileExists(envPath) {
		log.Printf("env check: ok (%s)", envPath)
	} else {
		log.Printf("env check: missing (%s)", envPath)
	}
	log.Printf("skin kind: %s", cfg.SkinKind)
}

// logSkinStatus reports how many skins are installed.
func logSkinStatus(cfg config.Config) {
	names, err := skinpack.List(cfg.SkinsDir)
	switch {
	case err != nil:
		log.Printf("skins check: %v", err)
	case len(names) == 0:
		log.Printf("skins check: none installed (%s)", cfg.SkinsDir)
	default:
		log.Printf("skins check: %d installed (%s)", len(names), cfg.SkinsDir)
	}
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(addr string) {
	log.Printf("listen addr: %s", addr)
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	log.Printf("local url: http://%s", net.JoinHostPort(host, port))
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
