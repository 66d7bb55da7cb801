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

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user into the database.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		// email carries a unique index
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByEmail retrieves a user by their email address.
func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByID retrieves a user by their MongoDB ObjectID.
func (r *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// AddStudentIDToCoach adds a student's ID to a coach's StudentIDs array.
func (r *mongoUserRepository) AddStudentIDToCoach(ctx context.Context, coachID, studentID primitive.ObjectID) error {
	filter := bson.M{"_id": coachID, "role": domain.RoleCoach}
	update := bson.M{
		"$addToSet": bson.M{"studentIds": studentID}, // $addToSet prevents duplicates
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetCoachForStudent sets the CoachID field for a specific student user.
func (r *mongoUserRepository) SetCoachForStudent(ctx context.Context, studentID, coachID primitive.ObjectID) error {
	filter := bson.M{"_id": studentID, "role": domain.RoleStudent}
	update := bson.M{
		"$set": bson.M{
			"coachId":   coachID,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetStudentsByCoachID retrieves all students associated with a specific coach.
func (r *mongoUserRepository) GetStudentsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	coach, err := r.GetByID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if !coach.IsCoach() || len(coach.StudentIDs) == 0 {
		return []domain.User{}, nil
	}

	var students []domain.User
	filter := bson.M{"_id": bson.M{"$in": coach.StudentIDs}}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// EnsureUserIndexes creates necessary indexes for the users collection.
// Call this once during application startup.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index(),
		},
		{
			// Sparse because only students have a coach
			Keys:    bson.D{{Key: "coachId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
