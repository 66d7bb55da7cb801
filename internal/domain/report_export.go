package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportFormat is the file format of an exported progress report.
type ReportFormat string

const (
	ReportCSV  ReportFormat = "csv"
	ReportJSON ReportFormat = "json"
)

// ReportExport stores metadata about a progress report rendered for a coach.
// The actual file resides in S3.
type ReportExport struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID   primitive.ObjectID `bson:"programId" json:"programId"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"` // internal use
	Format      ReportFormat       `bson:"format" json:"format"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	AsOf        string             `bson:"asOf" json:"asOf"` // date key the report was computed for
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
