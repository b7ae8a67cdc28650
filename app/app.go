package app

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/bookshelf-service/config"
	"github.com/Astemirdum/bookshelf-service/internal/handler"
	"github.com/Astemirdum/bookshelf-service/internal/repository"
	"github.com/Astemirdum/bookshelf-service/internal/server"
	"github.com/Astemirdum/bookshelf-service/internal/service"
	"github.com/Astemirdum/bookshelf-service/internal/storage"
	"github.com/Astemirdum/bookshelf-service/migrations"
	"github.com/Astemirdum/bookshelf-service/pkg/kafka"
	"github.com/Astemirdum/bookshelf-service/pkg/logger"
	"github.com/Astemirdum/bookshelf-service/pkg/postgres"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "bookshelf")

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	svc := service.NewService(repo, log)

	uploader, err := storage.NewOSSUploader(cfg.Storage, log)
	if err != nil {
		log.Fatal("storage init", zap.Error(err))
	}

	var producer sarama.SyncProducer
	if len(cfg.Kafka.Addrs) > 0 {
		if producer, err = kafka.NewProducer(cfg.Kafka); err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
	} else {
		log.Warn("kafka brokers not configured, book events disabled")
	}

	auth, err := handler.NewAuth(context.Background(), cfg.OAuth, cfg.Session, log)
	if err != nil {
		log.Fatal("auth init", zap.Error(err))
	}

	h := handler.New(svc, uploader, auth, handler.NewEnqueuer(producer), log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	g := new(errgroup.Group)
	g.Go(func() error {
		if err := srv.Run(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		log.Error("server run", zap.Error(err))
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("producer close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
