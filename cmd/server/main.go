package main

import (
	"github.com/crossfun/backend/internal/config"
	"github.com/crossfun/backend/internal/logger"
	"github.com/crossfun/backend/internal/server"
)

func main() {
	log := logger.New("server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing server")
	}

	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
