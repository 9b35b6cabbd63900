package transport

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SQSClient define a interface necessária para o reloader (permite Mocking)
type SQSClient interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Reloader aplica uma nova versão das credenciais do bureau.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloaderFunc adapta uma função para Reloader.
type ReloaderFunc func(ctx context.Context) error

func (f ReloaderFunc) Reload(ctx context.Context) error { return f(ctx) }

// SQSReloader escuta a fila de rotação de segredos: cada mensagem recebida
// dispara um Reload. A mensagem só é removida se o Reload der certo, assim uma
// falha volta para a fila depois do visibility timeout.
type SQSReloader struct {
	client     SQSClient
	queueURL   string
	reloader   Reloader
	retryDelay time.Duration
	logger     zerolog.Logger
}

// NewSQSReloader cria uma nova instância do reloader
func NewSQSReloader(client SQSClient, queueURL string, reloader Reloader) *SQSReloader {
	return &SQSReloader{
		client:     client,
		queueURL:   queueURL,
		reloader:   reloader,
		retryDelay: 5 * time.Second,
		logger:     log.With().Str("component", "sqs_reloader").Logger(),
	}
}

// Start inicia o monitoramento (bloqueante)
func (s *SQSReloader) Start(ctx context.Context) {
	if s.queueURL == "" {
		s.logger.Warn().Msg("URL da fila SQS não configurada. Rotação de credenciais desativada.")
		return
	}

	s.logger.Info().Str("queue", s.queueURL).Msg("Monitorando fila SQS para rotação de credenciais")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Parando monitoramento SQS")
			return
		default:
		}

		out, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(s.queueURL),
			MaxNumberOfMessages: 1,
			WaitTimeSeconds:     20, // Long polling
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Error().Err(err).Dur("retry_in", s.retryDelay).Msg("Erro no SQS")
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.retryDelay):
			}
			continue
		}

		for _, msg := range out.Messages {
			s.logger.Info().Str("message_id", aws.ToString(msg.MessageId)).Msg("Evento de rotação recebido via SQS")

			if err := s.reloader.Reload(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Falha ao recarregar credenciais")
				continue
			}

			_, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      aws.String(s.queueURL),
				ReceiptHandle: msg.ReceiptHandle,
			})
			if err != nil {
				s.logger.Warn().Err(err).Msg("Falha ao remover mensagem da fila")
			}
		}
	}
}
