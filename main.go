package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"debate_room/internal/api"
	"debate_room/internal/repository"
	repomodels "debate_room/internal/repository/models"
	"debate_room/internal/service"
	"debate_room/internal/storage"
	"debate_room/pkg/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 載入 .env（如果存在），再載入應用程式配置
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	// 初始化資料庫連接（可選）。資料庫只作為題庫和狀態鏡像，不會讀回引擎。
	var repos *repository.Repositories
	if cfg.DB.Enabled {
		db, err := storage.NewPostgresDB(cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database")
		}
		// 確保在程序結束時關閉數據庫連接
		defer db.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.Ping(pingCtx)
		pingCancel()
		if err != nil {
			log.Fatal().Err(err).Msg("database is not reachable")
		}

		// 自動遷移資料庫結構
		if err := db.AutoMigrate(&repomodels.Topic{}, &repomodels.Room{}, &repomodels.Participant{}, &repomodels.Argument{}); err != nil {
			log.Fatal().Err(err).Msg("failed to auto migrate database")
		}
		repos = repository.NewRepositories(db)
	}

	// 初始化服務
	services := service.NewServices(ctx, cfg, repos)

	// 設置 Gin 路由
	r := gin.New()
	r.Use(gin.Recovery())
	api.SetupRoutes(r, services)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	var wg conc.WaitGroup
	if services.Mirror != nil {
		wg.Go(func() {
			if err := services.Mirror.Run(ctx); err != nil {
				log.Error().Err(err).Msg("room mirror stopped")
			}
		})
	}

	// 啟動伺服器
	wg.Go(func() {
		log.Info().Str("addr", cfg.Server.Address).Msg("debate room server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	})

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	wg.Wait()
	log.Info().Msg("server exited gracefully")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Server.Mode == gin.DebugMode {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	gin.SetMode(cfg.Server.Mode)
}
