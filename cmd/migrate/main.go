package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/priyansupat/farmdirect-backend/pkg/config"
	"github.com/priyansupat/farmdirect-backend/pkg/db"
	"github.com/priyansupat/farmdirect-backend/pkg/logger"
	"github.com/priyansupat/farmdirect-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	dir := flag.String("dir", migrate.DefaultDir, "directory with migration files")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		os.Stderr.WriteString("usage: migrate [-dir path] <command> [args]\n")
		os.Exit(2)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "farmdirect-migrate",
		Level:       zerolog.InfoLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "opening database", err)
		os.Exit(1)
	}
	defer client.Close()

	sqlDB, err := client.DB().DB()
	if err != nil {
		logg.Error(ctx, "extracting sql.DB", err)
		os.Exit(1)
	}

	switch command {
	case "up-to", "down-to":
		if len(args) < 2 {
			logg.Error(ctx, "missing target version", nil)
			os.Exit(2)
		}
		err = migrate.MigrateToVersion(ctx, sqlDB, *dir, args[1])
	default:
		err = migrate.Run(ctx, sqlDB, *dir, command, args[1:]...)
	}
	if err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "command", command), "migration complete")
}
