package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"stream-rewards/internal/config"
	"stream-rewards/internal/game"
	"stream-rewards/internal/ledger"
	"stream-rewards/internal/logging"
	"stream-rewards/internal/platform"
	"stream-rewards/internal/store"
	httptransport "stream-rewards/internal/transport/http"
	"stream-rewards/internal/ws"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}

	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	if err := st.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("ensure schema failed")
	}

	seedUser(st, cfg.SeedUserName, cfg.SeedUserKey, cfg.StartingBalance)

	var mirror ledger.Mirror
	if cfg.PlatformMirrorEnabled && cfg.PlatformBaseURL != "" {
		mirror = platform.NewClient(cfg.PlatformBaseURL, cfg.PlatformAPIKey)
	}
	led := ledger.New(st, mirror)

	kenoTables, err := game.LoadKenoTables()
	if err != nil {
		log.Fatal().Err(err).Msg("load keno tables failed")
	}

	engine := game.NewEngine(led, st, st, kenoTables, game.NewRNG(), store.NewID)
	wsSrv := ws.NewServer(st, led, engine)

	r := httptransport.NewRouter(st, led, engine, wsSrv, cfg)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

func seedUser(st *store.Store, name, apiKey string, initial int64) {
	if name == "" || apiKey == "" {
		return
	}
	ctx := context.Background()
	if _, err := st.GetUserByAPIKey(ctx, apiKey); err == nil {
		return
	}
	id, err := st.CreateUser(ctx, name, apiKey, "")
	if err != nil {
		log.Warn().Err(err).Str("name", name).Msg("seed user failed")
		return
	}
	if err := st.EnsureAccount(ctx, id, initial); err != nil {
		log.Warn().Err(err).Str("name", name).Msg("seed account failed")
		return
	}
	log.Info().Str("name", name).Str("user_id", id).Msg("seeded user")
}
