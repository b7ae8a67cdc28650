package main

import (
	stdLog "log"
	"time"

	"github.com/Astemirdum/bookshelf-service/app"
	"github.com/Astemirdum/bookshelf-service/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Settings come from the environment; a .env file fills in what the
	// environment leaves unset.
	if err := godotenv.Load(); err != nil {
		stdLog.Println("no .env file, relying on environment")
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
