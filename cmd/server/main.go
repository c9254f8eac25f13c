package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	chromem "github.com/philippgille/chromem-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/murmurhouse/murmur/internal/adapters/httpapi"
	"github.com/murmurhouse/murmur/internal/archive"
	"github.com/murmurhouse/murmur/internal/config"
	"github.com/murmurhouse/murmur/internal/generate"
	"github.com/murmurhouse/murmur/internal/room"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("data dir unavailable")
	}

	store, closeStores := buildArchiveStore(cfg)
	defer closeStores()

	openai := generate.NewOpenAIClient(cfg.OpenAI)
	pipeline := generate.NewPipeline(openai, openai)

	sup := room.NewSupervisor(ctx, cfg.RoomList(), room.Deps{
		Generator: pipeline,
		Archives:  store,
		Limits: room.Limits{
			MaxMessagesInMemory: cfg.Limits.MaxMessagesInMemory,
			ArchiveThreshold:    cfg.Limits.ArchiveThreshold,
			ArchiveBatch:        cfg.Limits.ArchiveBatch,
			ContextMessages:     cfg.Limits.ContextMessages,
			SnapshotMessages:    cfg.Limits.SnapshotMessages,
		},
	})

	r := httpapi.SetupRouter(ctx, cfg, sup)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Int("rooms", len(cfg.RoomList())).Msg("murmur server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	sup.Shutdown()
	log.Info().Msg("Server exited gracefully")
}

// buildArchiveStore wires the two-tier archive persistence: chromem for
// ranked search over summaries, sqlite for full-content listing. Either tier
// failing to open degrades to the other instead of refusing to boot.
func buildArchiveStore(cfg *config.Config) (archive.Store, func()) {
	sqlite, err := archive.OpenSQLite(filepath.Join(cfg.DataDir, "archives.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("sqlite archive store unavailable")
	}
	closeFn := func() {
		if err := sqlite.Close(); err != nil {
			log.Warn().Err(err).Msg("sqlite close")
		}
	}

	if cfg.OpenAI.APIKey == "" {
		log.Warn().Str("module", "main").Msg("no OpenAI key, archive search runs on sqlite only")
		return sqlite, closeFn
	}

	embedFn := chromem.NewEmbeddingFuncOpenAICompat(
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.APIKey,
		cfg.OpenAI.EmbedModel,
		nil,
	)
	vector, err := archive.NewVectorStore(cfg.DataDir, embedFn)
	if err != nil {
		log.Warn().Err(err).Msg("vector store unavailable, archive search runs on sqlite only")
		return sqlite, closeFn
	}

	return archive.NewChain(vector, sqlite), closeFn
}
