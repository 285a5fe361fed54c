// Package schema provides the database schema for stored run reports.
package schema

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jaeaeich/nbrun/internal/runner"
)

// ReportCollection represents the report collection structure in MongoDB.
type ReportCollection struct {
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	RunID     string             `bson:"run_id" json:"run_id"`
	Report    *runner.Report     `bson:"report,omitempty" json:"report,omitempty"`
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
}

// NewReportCollection creates a new report collection document.
func NewReportCollection(runID string, report *runner.Report) *ReportCollection {
	now := time.Now()
	return &ReportCollection{
		RunID:     runID,
		Report:    report,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
