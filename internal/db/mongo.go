package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vaughan-dsouza/postboard/internal/models"
)

const postsCollection = "posts"

// postDocument is the persisted shape of a post.
type postDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Title   string             `bson:"title"`
	Content string             `bson:"content"`
	Created time.Time          `bson:"created"`
}

// toModel converts a stored document. Documents written without a created
// field report the current time.
func (d postDocument) toModel() models.Post {
	created := d.Created.UTC()
	if d.Created.IsZero() {
		created = now()
	}
	return models.Post{
		ID:      d.ID.Hex(),
		Title:   d.Title,
		Content: d.Content,
		Created: created,
	}
}

// MongoStore keeps one client for the process; the driver pools connections
// and each call checks one out for its own duration.
type MongoStore struct {
	client *mongo.Client
	posts  *mongo.Collection
}

func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("db: mongo connect: %w", err)
	}

	return NewMongoStore(client, database), nil
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client: client,
		posts:  client.Database(database).Collection(postsCollection),
	}
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

func (s *MongoStore) List(ctx context.Context, title string) ([]models.Post, error) {
	filter := bson.M{}
	if title != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(title), Options: "i"}
	}

	cur, err := s.posts.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("db: find posts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []postDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db: decode posts: %w", err)
	}

	posts := make([]models.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toModel())
	}
	return posts, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*models.Post, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc postDocument
	err = s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db: find post %s: %w", id, err)
	}

	post := doc.toModel()
	return &post, nil
}

func (s *MongoStore) Insert(ctx context.Context, title, content string) (*models.Post, error) {
	doc := postDocument{
		Title:   title,
		Content: content,
		Created: now(),
	}

	res, err := s.posts.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("db: insert post: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("db: unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = oid

	post := doc.toModel()
	return &post, nil
}

func (s *MongoStore) Update(ctx context.Context, id, title, content string) (*models.Post, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{"title": title, "content": content}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDocument
	err = s.posts.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db: update post %s: %w", id, err)
	}

	post := doc.toModel()
	return &post, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("db: delete post %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
