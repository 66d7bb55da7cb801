package mongo

import (
	"alcyxob/kinevo/internal/domain"
	"alcyxob/kinevo/internal/repository"
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reportExportCollectionName = "report_exports"

// mongoReportExportRepository implements repository.ReportExportRepository
type mongoReportExportRepository struct {
	collection *mongo.Collection
}

// NewMongoReportExportRepository creates a new repository for report export metadata.
func NewMongoReportExportRepository(db *mongo.Database) repository.ReportExportRepository {
	return &mongoReportExportRepository{
		collection: db.Collection(reportExportCollectionName),
	}
}

// Create inserts new report metadata.
func (r *mongoReportExportRepository) Create(ctx context.Context, export *domain.ReportExport) (primitive.ObjectID, error) {
	if export.ProgramID == primitive.NilObjectID || export.CoachID == primitive.NilObjectID || export.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("report export requires programId, coachId and s3ObjectKey")
	}
	export.ID = primitive.NewObjectID()
	export.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, export)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted report export ID")
	}
	return insertedID, nil
}

// GetByID retrieves report metadata by its ID.
func (r *mongoReportExportRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ReportExport, error) {
	var export domain.ReportExport
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&export)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &export, nil
}

// GetByProgramID lists the reports exported for a program, newest first.
func (r *mongoReportExportRepository) GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.ReportExport, error) {
	var exports []domain.ReportExport
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"programId": programID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &exports); err != nil {
		return nil, err
	}
	return exports, nil
}

// EnsureReportExportIndexes creates necessary indexes for report metadata.
func EnsureReportExportIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "programId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "s3ObjectKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
