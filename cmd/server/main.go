package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/raywall/serasa-experian-client/pkg/config"
	"github.com/raywall/serasa-experian-client/pkg/config/injector"
	"github.com/raywall/serasa-experian-client/pkg/engine"
	"github.com/raywall/serasa-experian-client/pkg/secrets"
	"github.com/raywall/serasa-experian-client/pkg/transport"
)

var (
	configPath string
	// Variáveis injetáveis para mocking
	serverStarter = transport.StartHTTPServer
	lambdaStarter = func(h *transport.LambdaHandler) { lambda.Start(h.Handle) }
	engineOptions []engine.Option
	newResolver   = func(ctx context.Context) (injector.SecretResolver, error) {
		return secrets.NewAWSResolverFromEnv(ctx, os.Getenv("AWS_REGION"))
	}
)

func init() {
	configPath = os.Getenv("CONFIG_FILE_PATH")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, configPath); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run contém a lógica principal testável. Sem CONFIG_FILE_PATH a
// configuração vem apenas de variáveis de ambiente. Dentro do runtime Lambda
// o roteador é servido pelo adaptador do API Gateway.
func run(ctx context.Context, cfgPath string) error {
	cfg, err := loadConfig(ctx, cfgPath)
	if err != nil {
		return err
	}

	svcEngine, err := engine.NewServiceEngine(ctx, cfg, engineOptions...)
	if err != nil {
		return err
	}
	defer svcEngine.Close()

	if fn := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); fn != "" {
		svcEngine.Logger.Info().
			Str("function", fn).
			Str("environment", string(svcEngine.Client.Environment())).
			Msg("Gateway Serasa Experian iniciado no Lambda")
		lambdaStarter(transport.NewLambdaHandler(svcEngine.Handler()))
		return nil
	}

	go func() {
		source := func(ctx context.Context) (*config.ServiceConfig, error) { return loadConfig(ctx, cfgPath) }
		if err := svcEngine.WatchCredentials(ctx, source); err != nil {
			svcEngine.Logger.Error().Err(err).Msg("Rotação de credenciais desativada")
		}
	}()

	svcEngine.Logger.Info().
		Str("environment", string(svcEngine.Client.Environment())).
		Int("port", cfg.Service.Port).
		Msg("Gateway Serasa Experian iniciado")

	return serverStarter(ctx, transport.NewHTTPServer(cfg.Service, svcEngine.Handler()))
}

func loadConfig(ctx context.Context, cfgPath string) (*config.ServiceConfig, error) {
	if cfgPath == "" {
		return config.FromEnv()
	}

	resolver, err := newResolver(ctx)
	if err != nil {
		return nil, err
	}
	loader := config.NewUniversalLoader(config.WithInjector(injector.New(resolver)))
	return loader.Load(ctx, cfgPath)
}
