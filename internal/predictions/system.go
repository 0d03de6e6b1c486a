package predictions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/coursecast/pkg/pagination"
)

// System defines the public contract for prediction domain operations.
type System interface {
	Handler(maxBodySize int64) *Handler

	// HistoryEnabled reports whether predictions are persisted.
	HistoryEnabled() bool

	Predict(ctx context.Context, cmd Command) (*Result, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Prediction], error)

	Find(ctx context.Context, id uuid.UUID) (*Prediction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
