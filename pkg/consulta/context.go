package consulta

import "context"

type correlationKey struct{}

// WithCorrelationID anexa o id de correlação da requisição ao contexto.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
