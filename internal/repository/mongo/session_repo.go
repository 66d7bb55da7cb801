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

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new Session repository backed by MongoDB.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new session. StartedAt is kept as given so callers can
// backfill sessions recorded offline.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.ProgramID == primitive.NilObjectID || session.StudentID == primitive.NilObjectID || session.AssignedWorkoutID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session requires programId, studentId and assignedWorkoutId")
	}

	session.ID = primitive.NewObjectID()
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now().UTC()
	}
	session.UpdatedAt = time.Now().UTC()
	if session.Status == "" {
		session.Status = domain.SessionInProgress
	}

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// GetByID retrieves a session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	var session domain.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetByProgramInRange retrieves the sessions of a program started in [from, to).
func (r *mongoSessionRepository) GetByProgramInRange(ctx context.Context, programID primitive.ObjectID, from, to time.Time) ([]domain.Session, error) {
	var sessions []domain.Session
	filter := bson.M{
		"programId": programID,
		"startedAt": bson.M{"$gte": from.UTC(), "$lt": to.UTC()},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "startedAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Complete marks a session as completed.
func (r *mongoSessionRepository) Complete(ctx context.Context, id primitive.ObjectID, completedAt time.Time, rpe *int, notes string) error {
	set := bson.M{
		"status":      domain.SessionCompleted,
		"completedAt": completedAt.UTC(),
		"updatedAt":   time.Now().UTC(),
	}
	if rpe != nil {
		set["rpe"] = *rpe
	}
	if notes != "" {
		set["notes"] = notes
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSessionIndexes creates necessary indexes for the sessions collection.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// range scans for calendar projections
			Keys:    bson.D{{Key: "programId", Value: 1}, {Key: "startedAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "startedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "assignedWorkoutId", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
