// internal/repository/mongo/program_repo.go
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

const programCollectionName = "programs"

// mongoProgramRepository implements repository.ProgramRepository
type mongoProgramRepository struct {
	collection *mongo.Collection
}

// NewMongoProgramRepository creates a new Program repository.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		collection: db.Collection(programCollectionName),
	}
}

// Create inserts a new program.
func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	if program.CoachID == primitive.NilObjectID || program.StudentID == primitive.NilObjectID || program.Name == "" {
		return primitive.NilObjectID, errors.New("program requires coachId, studentId, and name")
	}
	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	if program.Status == "" {
		program.Status = domain.ProgramDraft
	}

	result, err := r.collection.InsertOne(ctx, program)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted program ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single program by its ID.
func (r *mongoProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	var program domain.Program
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// GetByStudentID retrieves every program of a student, newest first.
func (r *mongoProgramRepository) GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.Program, error) {
	var programs []domain.Program
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"studentId": studentID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// Update persists the mutable fields of a program. Ownership fields are not
// touched here.
func (r *mongoProgramRepository) Update(ctx context.Context, program *domain.Program) error {
	if program.ID == primitive.NilObjectID {
		return errors.New("program ID is required for update")
	}
	program.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":          program.Name,
			"description":   program.Description,
			"startedAt":     program.StartedAt,
			"durationWeeks": program.DurationWeeks,
			"status":        program.Status,
			"updatedAt":     program.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": program.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgramIndexes creates necessary indexes. Call during startup.
func EnsureProgramIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
