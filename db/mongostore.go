// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/danielhkuo/contesthub/models"
)

// Collection names
const (
	UsersCollection   = "users"
	ContestCollection = "contest"
)

// MongoStore keeps users and contests in MongoDB
type MongoStore struct {
	client   *mongo.Client
	users    *mongo.Collection
	contests *mongo.Collection
}

type userDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Email   string             `bson:"email"`
	Name    string             `bson:"name,omitempty"`
	Photo   string             `bson:"photo,omitempty"`
	Role    string             `bson:"role"`
	Profile map[string]any     `bson:"profile,omitempty"`
}

func (d userDoc) model() models.User {
	return models.User{
		ID:      d.ID.Hex(),
		Email:   d.Email,
		Name:    d.Name,
		Photo:   d.Photo,
		Role:    d.Role,
		Profile: d.Profile,
	}
}

type contestDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Category    string             `bson:"category"`
	Fee         float64            `bson:"fee"`
	Prize       float64            `bson:"prize"`
	Deadline    string             `bson:"deadline"`
	Details     string             `bson:"details"`
	Instruction string             `bson:"instruction"`
	Image       string             `bson:"image"`
}

func (d contestDoc) model() models.Contest {
	return models.Contest{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Category:    d.Category,
		Fee:         d.Fee,
		Prize:       d.Prize,
		Deadline:    d.Deadline,
		Details:     d.Details,
		Instruction: d.Instruction,
		Image:       d.Image,
	}
}

// OpenMongo connects to uri, pings the primary and ensures the unique
// index on users.email
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := NewMongoStore(client, database)
	if err := s.EnsureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:   client,
		users:    db.Collection(UsersCollection),
		contests: db.Collection(ContestCollection),
	}
}

// EnsureIndexes creates the unique email index. Safe to call repeatedly.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}

	_, err = s.contests.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}},
		Options: options.Index().SetName("idx_category"),
	})
	if err != nil {
		return fmt.Errorf("failed to create category index: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Users

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := s.users.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.model())
	}
	return users, nil
}

func (s *MongoStore) GetUser(ctx context.Context, email string) (models.User, error) {
	var d userDoc
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return d.model(), nil
}

// CreateUser relies on the unique email index; a duplicate key error means
// the user already exists
func (s *MongoStore) CreateUser(ctx context.Context, u models.User) (string, bool, error) {
	d := userDoc{
		ID:      primitive.NewObjectID(),
		Email:   u.Email,
		Name:    u.Name,
		Photo:   u.Photo,
		Role:    u.Role,
		Profile: u.Profile,
	}

	_, err := s.users.InsertOne(ctx, d)
	if mongo.IsDuplicateKeyError(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to insert user: %w", err)
	}
	return d.ID.Hex(), true, nil
}

func (s *MongoStore) UpdateUserRole(ctx context.Context, email, role string) (models.User, error) {
	var d userDoc
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": role}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to update role: %w", err)
	}
	return d.model(), nil
}

// Contests

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

func (s *MongoStore) ListContests(ctx context.Context, category string) ([]models.Contest, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	cur, err := s.contests.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query contests: %w", err)
	}

	var docs []contestDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode contests: %w", err)
	}

	contests := make([]models.Contest, 0, len(docs))
	for _, d := range docs {
		contests = append(contests, d.model())
	}
	return contests, nil
}

func (s *MongoStore) GetContest(ctx context.Context, id string) (models.Contest, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Contest{}, err
	}

	var d contestDoc
	err = s.contests.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Contest{}, ErrNotFound
	}
	if err != nil {
		return models.Contest{}, fmt.Errorf("failed to query contest: %w", err)
	}
	return d.model(), nil
}

func (s *MongoStore) CreateContest(ctx context.Context, c models.Contest) (string, error) {
	d := contestDoc{
		ID:          primitive.NewObjectID(),
		Name:        c.Name,
		Category:    c.Category,
		Fee:         c.Fee,
		Prize:       c.Prize,
		Deadline:    c.Deadline,
		Details:     c.Details,
		Instruction: c.Instruction,
		Image:       c.Image,
	}

	if _, err := s.contests.InsertOne(ctx, d); err != nil {
		return "", fmt.Errorf("failed to insert contest: %w", err)
	}
	return d.ID.Hex(), nil
}

// contestSet builds the $set document for the fields present in f
func contestSet(f models.ContestFields) bson.M {
	set := bson.M{}
	for _, fv := range presentFields(f) {
		set[fv.column] = fv.value
	}
	return set
}

func (s *MongoStore) UpdateContest(ctx context.Context, id string, fields models.ContestFields) (models.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.UpdateResult{}, err
	}

	set := contestSet(fields)
	if len(set) == 0 {
		return models.UpdateResult{}, models.ErrEmptyPatch
	}

	res, err := s.contests.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("failed to update contest: %w", err)
	}
	return models.UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (s *MongoStore) DeleteContest(ctx context.Context, id string) (models.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.DeleteResult{}, err
	}

	res, err := s.contests.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("failed to delete contest: %w", err)
	}
	return models.DeleteResult{DeletedCount: res.DeletedCount}, nil
}
