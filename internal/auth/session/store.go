package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"carbook/pkg/config"
	"carbook/pkg/model"
)

const (
	CollectionName = "sessions"

	// CookieName is the opaque session cookie presented by browsers.
	CookieName = "session_token"
)

var ErrNotFound = errors.New("session not found")

// Store persists opaque session tokens server-side. Tokens are UUIDs;
// nothing about the user is recoverable from the token itself.
type Store interface {
	Create(ctx context.Context, identity model.Identity) (*model.Session, error)
	Find(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
}

type mongoStore struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoStore(cfg *config.Config) Store {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStore{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (s *mongoStore) Create(ctx context.Context, identity model.Identity) (*model.Session, error) {
	now := time.Now().UTC()
	sess := &model.Session{
		Token:     uuid.NewString(),
		UserID:    identity.UserID,
		Name:      identity.Name,
		Email:     identity.Email,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
		CreatedAt: now,
	}

	if _, err := s.collection.InsertOne(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

func (s *mongoStore) Find(ctx context.Context, token string) (*model.Session, error) {
	var sess model.Session
	err := s.collection.FindOne(ctx, bson.M{"_id": token}).Decode(&sess)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	// The TTL monitor removes expired sessions with up to a minute of
	// slack; don't honor one in that window.
	if !sess.ExpiresAt.After(time.Now()) {
		return nil, ErrNotFound
	}

	return &sess, nil
}

func (s *mongoStore) Delete(ctx context.Context, token string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": token})
	return err
}
