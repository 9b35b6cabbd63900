package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/raywall/serasa-experian-client/pkg/config"
	"github.com/raywall/serasa-experian-client/pkg/config/injector"
	"github.com/raywall/serasa-experian-client/pkg/engine"
	"github.com/raywall/serasa-experian-client/pkg/secrets"
	"github.com/raywall/serasa-experian-client/serasa"
)

var (
	// Variáveis injetáveis para mocking
	engineOptions []engine.Option
	newResolver   = func(ctx context.Context) (injector.SecretResolver, error) {
		return secrets.NewAWSResolverFromEnv(ctx, os.Getenv("AWS_REGION"))
	}
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "Comandos esperados: validate, consult")
		return 1
	}

	switch args[0] {
	case "validate":
		cmd := flag.NewFlagSet("validate", flag.ContinueOnError)
		cmd.SetOutput(stderr)
		filePtr := cmd.String("file", "", "Caminho do arquivo YAML ou S3/DynamoDB URI")
		if err := cmd.Parse(args[1:]); err != nil {
			return 1
		}
		if *filePtr == "" {
			fmt.Fprintln(stderr, "Erro: flag -file é obrigatória")
			return 1
		}
		return runValidate(*filePtr, stdout, stderr)

	case "consult":
		cmd := flag.NewFlagSet("consult", flag.ContinueOnError)
		cmd.SetOutput(stderr)
		opts := consultOptions{}
		cmd.StringVar(&opts.configPath, "config", "", "Arquivo de configuração (vazio: variáveis de ambiente)")
		cmd.StringVar(&opts.operation, "op", "", "consumer-score | business-score | pf-report | pj-report")
		cmd.StringVar(&opts.document, "document", "", "CPF ou CNPJ consultado")
		cmd.StringVar(&opts.reportName, "report", "", "reportName dos relatórios de dados avulsos")
		cmd.StringVar(&opts.optionalFeatures, "features", "", "optionalFeatures dos relatórios")
		cmd.StringVar(&opts.retailer, "retailer", "", "X-Retailer-Document-Id (opcional)")
		cmd.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Timeout da consulta")
		if err := cmd.Parse(args[1:]); err != nil {
			return 1
		}
		return runConsult(opts, stdout, stderr)

	default:
		fmt.Fprintln(stderr, "Comando desconhecido")
		return 1
	}
}

func loadConfig(ctx context.Context, path string) (*config.ServiceConfig, error) {
	if path == "" {
		return config.FromEnv()
	}
	resolver, err := newResolver(ctx)
	if err != nil {
		return nil, err
	}
	return config.NewUniversalLoader(config.WithInjector(injector.New(resolver))).Load(ctx, path)
}

func runValidate(path string, stdout, stderr io.Writer) int {
	fmt.Fprintf(stderr, "🔍 Analisando configuração: %s ...\n", path)

	// 1. Load (Validação Estrutural)
	cfg, err := loadConfig(context.Background(), path)
	if err != nil {
		fmt.Fprintf(stderr, "❌ Erro de Carregamento/Estrutura:\n%v\n", err)
		return 1
	}

	// 2. Analyze (Validação Lógica/Semântica)
	report := engine.Analyze(cfg)

	if os.Getenv("OUTPUT_FORMAT") == "json" {
		jsonOutput, _ := json.Marshal(report)
		fmt.Fprintln(stdout, string(jsonOutput))
	}

	for _, w := range report.Warnings {
		fmt.Fprintf(stderr, "⚠️  %s\n", w)
	}

	if !report.Valid {
		fmt.Fprintln(stderr, "❌ A configuração contém erros lógicos:")
		for _, e := range report.Errors {
			fmt.Fprintf(stderr, " - %s\n", e)
		}
		return 1
	}

	fmt.Fprintln(stderr, "✅ Configuração Válida e Pronta para Deploy!")
	return 0
}

type consultOptions struct {
	configPath       string
	operation        string
	document         string
	reportName       string
	optionalFeatures string
	retailer         string
	timeout          time.Duration
}

// runConsult faz uma consulta avulsa e imprime a resposta do bureau em JSON.
func runConsult(opts consultOptions, stdout, stderr io.Writer) int {
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	cfg, err := loadConfig(ctx, opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "❌ Erro de configuração: %v\n", err)
		return 1
	}

	svcEngine, err := engine.NewServiceEngine(ctx, cfg, engineOptions...)
	if err != nil {
		fmt.Fprintf(stderr, "❌ Erro ao iniciar cliente: %v\n", err)
		return 1
	}
	defer svcEngine.Close()

	svc := svcEngine.Service
	report := serasa.ReportRequest{ReportName: opts.reportName, OptionalFeatures: opts.optionalFeatures}

	var result any
	switch opts.operation {
	case "consumer-score":
		result, err = svc.ConsumerFraudScore(ctx, serasa.PersonFraudScoreRequest{Document: opts.document})
	case "business-score":
		result, err = svc.BusinessFraudScore(ctx, serasa.CompanyFraudScoreRequest{Document: opts.document})
	case "pf-report":
		result, err = svc.PersonReport(ctx, report, opts.document, opts.retailer)
	case "pj-report":
		result, err = svc.CompanyReport(ctx, report, opts.document, opts.retailer)
	default:
		fmt.Fprintf(stderr, "Operação desconhecida: %q\n", opts.operation)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return 1
	}
	return 0
}
