package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/raywall/serasa-experian-client/tools/emulator"
)

// Injetável para testes
var serverStarter = func(ctx context.Context, s *emulator.Server) error {
	return s.Start(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Getenv("EMULATOR_CONFIG_PATH")); err != nil {
		log.Fatalln(err)
	}
}

// run sobe a sandbox com o arquivo informado ou, sem ele, com Default().
func run(ctx context.Context, configPath string) error {
	cfg := emulator.Default()
	if configPath != "" {
		loaded, err := emulator.LoadFromFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	return serverStarter(ctx, emulator.NewServer(cfg))
}
