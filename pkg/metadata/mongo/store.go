// Package mongo implements metadata.Store on top of MongoDB.
//
// This is the primary production backend. Users live in the "users"
// collection and file documents in "files"; all queries are equality
// filters via FindOne, InsertOne, and CountDocuments.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"filevault/pkg/metadata"
)

const connectTimeout = 10 * time.Second

// MongoMetadataStore implements metadata.Store backed by a MongoDB database.
//
// The store holds a single shared client handle established at construction
// time. Document IDs are ObjectIDs on the wire and exposed to callers as
// their hex encoding, keeping the metadata.Store interface backend-agnostic.
//
// Thread Safety:
// The MongoDB client is safe for concurrent use; the store adds no state of
// its own beyond the handle.
type MongoMetadataStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// userDoc is the wire representation of metadata.User.
type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
}

// fileDoc is the wire representation of metadata.File.
type fileDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Name      string             `bson:"name"`
	Type      string             `bson:"type"`
	IsPublic  bool               `bson:"isPublic"`
	ParentID  string             `bson:"parentId"`
	LocalPath string             `bson:"localPath,omitempty"`
}

// NewMongoMetadataStore connects to MongoDB and returns a ready store.
//
// The connection is verified with a ping before returning, so callers get a
// ready-or-failed client rather than a handle that fails on first use.
func NewMongoMetadataStore(ctx context.Context, host string, port int, database string) (*MongoMetadataStore, error) {
	uri := fmt.Sprintf("mongodb://%s:%d", host, port)

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoMetadataStore{
		client: client,
		db:     client.Database(database),
	}, nil
}

func (s *MongoMetadataStore) users() *mongo.Collection {
	return s.db.Collection("users")
}

func (s *MongoMetadataStore) files() *mongo.Collection {
	return s.db.Collection("files")
}

// CreateUser inserts a new user if the email is not already registered.
func (s *MongoMetadataStore) CreateUser(ctx context.Context, email, passwordDigest string) (*metadata.User, error) {
	err := s.users().FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return nil, metadata.AlreadyExists("user already exists")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, metadata.IOError(fmt.Sprintf("failed to look up user: %v", err))
	}

	res, err := s.users().InsertOne(ctx, userDoc{Email: email, Password: passwordDigest})
	if err != nil {
		return nil, metadata.IOError(fmt.Sprintf("failed to insert user: %v", err))
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, metadata.IOError("unexpected inserted ID type")
	}

	return &metadata.User{ID: id.Hex(), Email: email, PasswordDigest: passwordDigest}, nil
}

// GetUserByCredentials finds a user by email and password digest equality.
func (s *MongoMetadataStore) GetUserByCredentials(ctx context.Context, email, passwordDigest string) (*metadata.User, error) {
	var doc userDoc
	err := s.users().FindOne(ctx, bson.M{"email": email, "password": passwordDigest}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, metadata.NotFound("user not found")
	}
	if err != nil {
		return nil, metadata.IOError(fmt.Sprintf("failed to look up user: %v", err))
	}
	return userFromDoc(&doc), nil
}

// GetUserByID finds a user by its ObjectID hex.
func (s *MongoMetadataStore) GetUserByID(ctx context.Context, id string) (*metadata.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, metadata.NotFound("user not found")
	}

	var doc userDoc
	err = s.users().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, metadata.NotFound("user not found")
	}
	if err != nil {
		return nil, metadata.IOError(fmt.Sprintf("failed to look up user: %v", err))
	}
	return userFromDoc(&doc), nil
}

// GetFile finds a file document by its ObjectID hex. Malformed IDs are
// reported as not found, matching the lookup-by-equality contract.
func (s *MongoMetadataStore) GetFile(ctx context.Context, id string) (*metadata.File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, metadata.NotFound("file not found")
	}

	var doc fileDoc
	err = s.files().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, metadata.NotFound("file not found")
	}
	if err != nil {
		return nil, metadata.IOError(fmt.Sprintf("failed to look up file: %v", err))
	}
	return fileFromDoc(&doc), nil
}

// InsertFile persists a new file document and returns its ObjectID hex.
func (s *MongoMetadataStore) InsertFile(ctx context.Context, file *metadata.File) (string, error) {
	doc := fileDoc{
		UserID:    file.UserID,
		Name:      file.Name,
		Type:      string(file.Type),
		IsPublic:  file.IsPublic,
		ParentID:  file.ParentID,
		LocalPath: file.LocalPath,
	}

	res, err := s.files().InsertOne(ctx, doc)
	if err != nil {
		return "", metadata.IOError(fmt.Sprintf("failed to insert file: %v", err))
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", metadata.IOError("unexpected inserted ID type")
	}
	return id.Hex(), nil
}

// CountUsers returns the number of documents in the users collection.
func (s *MongoMetadataStore) CountUsers(ctx context.Context) (int64, error) {
	n, err := s.users().CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, metadata.IOError(fmt.Sprintf("failed to count users: %v", err))
	}
	return n, nil
}

// CountFiles returns the number of documents in the files collection.
func (s *MongoMetadataStore) CountFiles(ctx context.Context) (int64, error) {
	n, err := s.files().CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, metadata.IOError(fmt.Sprintf("failed to count files: %v", err))
	}
	return n, nil
}

// Alive reports whether the client handle exists. No network round-trip is
// performed; a connected-then-partitioned database still reads as alive.
func (s *MongoMetadataStore) Alive() bool {
	return s.client != nil
}

// Close disconnects the client.
func (s *MongoMetadataStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func userFromDoc(doc *userDoc) *metadata.User {
	return &metadata.User{
		ID:             doc.ID.Hex(),
		Email:          doc.Email,
		PasswordDigest: doc.Password,
	}
}

func fileFromDoc(doc *fileDoc) *metadata.File {
	return &metadata.File{
		ID:        doc.ID.Hex(),
		UserID:    doc.UserID,
		Name:      doc.Name,
		Type:      metadata.FileType(doc.Type),
		IsPublic:  doc.IsPublic,
		ParentID:  doc.ParentID,
		LocalPath: doc.LocalPath,
	}
}
