package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"rps-arena/internal/archive"
	"rps-arena/internal/bank"
	"rps-arena/internal/config"
	"rps-arena/internal/feed"
	"rps-arena/internal/game"
	"rps-arena/internal/logging"
	"rps-arena/internal/store"
	httptransport "rps-arena/internal/transport/http"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(cfg.Log); err != nil {
		panic(err)
	}

	ledger := bank.New()
	events := feed.NewBuffer(cfg.Server.EventBufferSize)
	emitter := game.Emitter(events)

	var st *store.Store
	var rec *archive.Recorder
	if cfg.Server.PostgresDSN != "" {
		st, err = store.New(cfg.Server.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("archive init failed")
		}
		if err := st.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("archive ping failed")
		}
		if err := st.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("archive schema failed")
		}
		rec = archive.NewRecorder(st)
		defer rec.Close()
		emitter = game.CombineEmitters(events, rec)
		log.Info().Msg("match archive enabled")
	} else {
		log.Warn().Msg("POSTGRES_DSN not set; match archive disabled")
	}

	contract, err := game.New(game.Params{
		Owner:             cfg.Game.OwnerAddress,
		MinBet:            cfg.Game.MinBet,
		MaxBet:            cfg.Game.MaxBet,
		CommissionRateBps: cfg.Game.CommissionRateBps,
		CommissionWallets: cfg.Game.CommissionWallets,
		CommitTimeout:     cfg.Game.CommitTimeout,
		RevealTimeout:     cfg.Game.RevealTimeout,
		MatchExpiry:       cfg.Game.MatchExpiry,
	}, ledger, emitter)
	if err != nil {
		log.Fatal().Err(err).Msg("contract init failed")
	}

	r := httptransport.NewRouter(httptransport.Deps{
		Contract: contract,
		Bank:     ledger,
		Events:   events,
		Players:  httptransport.NewPlayerRegistry(),
		Archive:  st,
	}, cfg)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
