package ports

import (
	"context"

	"newsdesk/domain/prediction"
)

// ClassifierPort is read/submit access to the external classifier backend.
// Implementations return typed errors from newsdesk/internal/errors:
// NETWORK_ERROR when no response arrived, APPLICATION_ERROR when the backend
// reported a failure, EXTERNAL_SERVICE_ERROR for anything unreadable.
type ClassifierPort interface {
	Health(ctx context.Context) (*prediction.Health, error)
	ModelInfo(ctx context.Context) (*prediction.ModelInfo, error)
	History(ctx context.Context) ([]prediction.Record, error)
	Predict(ctx context.Context, req prediction.PredictRequest) (*prediction.PredictResponse, error)
}
