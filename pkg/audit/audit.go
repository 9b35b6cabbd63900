package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
)

// Record é uma linha da trilha de auditoria. O documento consultado nunca é
// gravado em texto puro, apenas o hash.
type Record struct {
	ID            string `dynamodbav:"id"`
	Operation     string `dynamodbav:"operation"`
	DocumentHash  string `dynamodbav:"document_hash"`
	Result        string `dynamodbav:"result"`
	ErrorKind     string `dynamodbav:"error_kind,omitempty"`
	StatusCode    int    `dynamodbav:"status_code,omitempty"`
	CacheHit      bool   `dynamodbav:"cache_hit"`
	CorrelationID string `dynamodbav:"correlation_id,omitempty"`
	LatencyMs     int64  `dynamodbav:"latency_ms"`
	CreatedAt     string `dynamodbav:"created_at"`
	ExpiresAt     int64  `dynamodbav:"expires_at"`
}

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder persiste registros de auditoria.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// PutItemAPI é o subconjunto do cliente DynamoDB usado pelo recorder.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoRecorder grava cada consulta como um item; expires_at serve de
// atributo TTL da tabela.
type DynamoRecorder struct {
	client    PutItemAPI
	table     string
	retention time.Duration
	now       func() time.Time
}

func NewDynamoRecorder(client PutItemAPI, table string, retention time.Duration) *DynamoRecorder {
	return &DynamoRecorder{client: client, table: table, retention: retention, now: time.Now}
}

// Record completa ID, CreatedAt e ExpiresAt quando vazios e grava o item.
func (r *DynamoRecorder) Record(ctx context.Context, rec Record) error {
	now := r.now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt == "" {
		rec.CreatedAt = now.Format(time.RFC3339)
	}
	if rec.ExpiresAt == 0 && r.retention > 0 {
		rec.ExpiresAt = now.Add(r.retention).Unix()
	}

	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("audit: marshal failed: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("audit: put failed: %w", err)
	}
	return nil
}

// Noop descarta os registros.
type Noop struct{}

func (Noop) Record(context.Context, Record) error { return nil }
