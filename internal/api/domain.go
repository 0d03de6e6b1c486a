package api

import (
	"database/sql"

	"github.com/JaimeStill/coursecast/internal/predictions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Predictions predictions.System
}

// NewDomain creates all domain systems from the API runtime.
// Prediction history is enabled only when a database is configured.
func NewDomain(runtime *Runtime) *Domain {
	var db *sql.DB
	if runtime.Database != nil {
		db = runtime.Database.Connection()
	}

	return &Domain{
		Predictions: predictions.New(
			db,
			runtime.Artifacts,
			runtime.Advisor,
			runtime.Metrics,
			runtime.Logger,
			runtime.Pagination,
		),
	}
}
