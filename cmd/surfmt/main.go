package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"surfmt/internal/api"
	"surfmt/internal/cache"
	"surfmt/internal/catalog"
	"surfmt/internal/config"
	"surfmt/internal/httpserver"
	"surfmt/internal/logging"
	"surfmt/internal/scanner"
	"surfmt/internal/scheduler"
	"surfmt/internal/version"
	"surfmt/internal/watcher"
)

const bannerArt = `
  ____              __     __  _______
 / ___|  _   _ _ __ / _|   |  \/  |  _ \
 \___ \ | | | | '__| |_ ___| |\/| | |_) |
  ___) || |_| | |  |  _|___| |  | |  __/
 |____/  \__,_|_|  |_|      |_|  |_|_|
`

const rescanInterval = 30 * time.Minute

func main() {
	v := version.Load()
	fmt.Println(bannerArt)
	fmt.Printf("  surf-mt %s\n\n", v.Version)

	cfg, err := config.Load()
	if err != nil {
		logging.Errorf("config: %v", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.MediaRoot, 0o755); err != nil {
		logging.Errorf("media root: %v", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		logging.Errorf("cache dir: %v", err)
		os.Exit(1)
	}

	trackCache, err := cache.New(cfg.CacheDir, cfg.MaxCache)
	if err != nil {
		logging.Errorf("cache: %v", err)
		os.Exit(1)
	}

	sc := scanner.New()
	runScan := func() {
		start := time.Now()
		c, err := catalog.Open(cfg.DBPath())
		if err != nil {
			logging.Errorf("scan: open catalog: %v", err)
			return
		}
		defer c.Close()
		if err := sc.Scan(c, cfg.MediaRoot); err != nil {
			logging.Errorf("scan: %v", err)
			return
		}
		logging.Infof("scan: completed in %s", time.Since(start))
	}

	logging.Infof("scanning %s", cfg.MediaRoot)
	runScan()

	rescanScheduler := scheduler.New(rescanInterval, runScan)
	rescanScheduler.Start()
	defer rescanScheduler.Stop()

	fsWatcher, err := watcher.New(cfg.MediaRoot, runScan)
	if err != nil {
		logging.Warnf("watcher: failed to start: %v", err)
	} else {
		fsWatcher.Start()
		defer fsWatcher.Stop()
	}

	a := api.New(cfg.DBPath(), sc, trackCache)
	srv, err := httpserver.New(":"+strconv.Itoa(cfg.Port), a.Routes())
	if err != nil {
		logging.Errorf("listen: %v", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logging.Infof("shutting down")
		srv.Shutdown()
	}()

	logging.Infof("serving on %s", srv.Addr())
	if err := srv.Serve(); err != nil {
		logging.Errorf("serve: %v", err)
		os.Exit(1)
	}
	logging.Sync()
}
