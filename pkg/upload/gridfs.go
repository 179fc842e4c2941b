package upload

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// GridFSConfig locates the bucket images are written to
type GridFSConfig struct {
	URI       string
	Database  string
	Bucket    string
	PublicURL string
}

// GridFSStore writes objects to a MongoDB GridFS bucket. The public URL of
// an object is PublicURL/<object id hex>.
type GridFSStore struct {
	client    *mongo.Client
	bucket    *gridfs.Bucket
	publicURL string
}

// Connect dials MongoDB and opens the bucket
func Connect(ctx context.Context, cfg GridFSConfig) (*GridFSStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	store, err := NewGridFSStore(client.Database(cfg.Database), cfg.Bucket, cfg.PublicURL)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	store.client = client
	return store, nil
}

// NewGridFSStore opens bucketName in db
func NewGridFSStore(db *mongo.Database, bucketName, publicURL string) (*GridFSStore, error) {
	opts := options.GridFSBucket()
	if bucketName != "" {
		opts.SetName(bucketName)
	}
	bucket, err := gridfs.NewBucket(db, opts)
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &GridFSStore{bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Upload streams r into the bucket
func (s *GridFSStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(deadline); err != nil {
			return "", err
		}
	}

	stream, err := s.bucket.OpenUploadStream(name)
	if err != nil {
		return "", fmt.Errorf("open upload stream: %w", err)
	}
	if _, err := io.Copy(stream, r); err != nil {
		_ = stream.Abort()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	id, ok := stream.FileID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected file id type %T", stream.FileID)
	}
	return s.publicURL + "/" + id.Hex(), nil
}

// Close disconnects the underlying client when Connect created it
func (s *GridFSStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
