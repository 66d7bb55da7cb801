// internal/repository/mongo/workout_repo.go
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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.ProgramID == primitive.NilObjectID || workout.CoachID == primitive.NilObjectID || workout.StudentID == primitive.NilObjectID || workout.Name == "" {
		return primitive.NilObjectID, errors.New("workout requires programId, coachId, studentId, and name")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	if workout.ScheduledDays == nil {
		workout.ScheduledDays = []int{}
	}

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByProgramID retrieves all workouts of a program ordered by sequence.
func (r *mongoWorkoutRepository) GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.Workout, error) {
	var workouts []domain.Workout
	findOptions := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"programId": programID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}

	// ProgramID, CoachID and StudentID never change through this update.
	update := bson.M{
		"$set": bson.M{
			"name":          workout.Name,
			"scheduledDays": workout.ScheduledDays,
			"notes":         workout.Notes,
			"sequence":      workout.Sequence,
			"updatedAt":     time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": workout.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutRepository) Delete(ctx context.Context, workoutID, coachID primitive.ObjectID) error {
	if workoutID == primitive.NilObjectID || coachID == primitive.NilObjectID {
		return errors.New("workout ID and coach ID are required for deletion")
	}

	// the coach filter doubles as the ownership check
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": workoutID, "coachId": coachID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "programId", Value: 1}, {Key: "sequence", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
