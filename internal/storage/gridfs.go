// Package storage keeps uploaded images in GridFS, in the same database as
// everything else. Each blob gets a UUID object key; the serving URL is
// derived from it.
package storage

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound means no blob exists under the given key.
var ErrNotFound = errors.New("blob not found")

type BlobStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

// New builds a store serving blobs under baseURL (e.g. "/api/v1/images").
func New(db *mongo.Database, baseURL string) (*BlobStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("images"))
	if err != nil {
		return nil, errors.Wrap(err, "opening gridfs bucket")
	}
	return &BlobStore{bucket: bucket, baseURL: baseURL}, nil
}

type blobMetadata struct {
	ContentType string `bson:"contentType"`
}

// Put stores the blob and returns its object key and public URL.
func (s *BlobStore) Put(filename, contentType string, r io.Reader) (key, url string, err error) {
	key = uuid.NewString()
	name := time.Now().Format("2006-01-02 15:04:05") + "_" + filename
	opts := options.GridFSUpload().SetMetadata(blobMetadata{ContentType: contentType})

	if err := s.bucket.UploadFromStreamWithID(key, name, r, opts); err != nil {
		return "", "", errors.Wrap(err, "uploading blob")
	}
	return key, s.baseURL + "/" + key, nil
}

// Blob is an open download stream plus the stored content type.
type Blob struct {
	io.ReadCloser
	ContentType string
	Length      int64
}

// Open returns the blob for serving.
func (s *BlobStore) Open(key string) (*Blob, error) {
	stream, err := s.bucket.OpenDownloadStream(key)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "opening blob")
	}

	file := stream.GetFile()
	var meta blobMetadata
	if file.Metadata != nil {
		// Ignore a malformed metadata document; the stream still serves.
		_ = bson.Unmarshal(file.Metadata, &meta)
	}
	return &Blob{ReadCloser: stream, ContentType: meta.ContentType, Length: file.Length}, nil
}

// Delete removes the blob. Callers treat failures as best-effort cleanup.
func (s *BlobStore) Delete(key string) error {
	if key == "" {
		return nil
	}
	return errors.Wrap(s.bucket.Delete(key), "deleting blob")
}
