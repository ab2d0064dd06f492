// Package mongo provides the MongoDB-backed persisted session storage.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

const (
	defaultTimeout    = 10 * time.Second
	sessionCollection = "session_state"
	sessionDocID      = "current"
)

// Config captures the minimal settings required to establish a MongoDB
// connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping,
// and returns both the client and the selected database. A default timeout
// is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// SessionStore keeps the session agent's single session in one document.
// The identity blob and the token live in separate fields so the token can
// be refreshed without rewriting the blob.
type SessionStore struct {
	coll *mongo.Collection
}

// NewSessionStore creates a SessionStore on the session_state collection.
func NewSessionStore(db *mongo.Database) *SessionStore {
	return &SessionStore{coll: db.Collection(sessionCollection)}
}

type sessionDoc struct {
	ID        string `bson:"_id"`
	Identity  []byte `bson:"identity,omitempty"`
	Token     string `bson:"token,omitempty"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (s *SessionStore) ReadIdentity(ctx context.Context) ([]byte, error) {
	doc, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	if len(doc.Identity) == 0 {
		return nil, domain.ErrNoSession
	}
	return doc.Identity, nil
}

func (s *SessionStore) WriteIdentity(ctx context.Context, blob []byte) error {
	return s.set(ctx, bson.M{"identity": blob})
}

func (s *SessionStore) ReadToken(ctx context.Context) (string, error) {
	doc, err := s.read(ctx)
	if err != nil {
		return "", err
	}
	if doc.Token == "" {
		return "", domain.ErrNoSession
	}
	return doc.Token, nil
}

func (s *SessionStore) WriteToken(ctx context.Context, token string) error {
	return s.set(ctx, bson.M{"token": token})
}

// Clear removes the session document, dropping blob and token together.
func (s *SessionStore) Clear(ctx context.Context) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": sessionDocID}); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

func (s *SessionStore) read(ctx context.Context) (*sessionDoc, error) {
	var doc sessionDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": sessionDocID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	return &doc, nil
}

func (s *SessionStore) set(ctx context.Context, fields bson.M) error {
	fields["updated_at"] = time.Now().Unix()
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": sessionDocID},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
