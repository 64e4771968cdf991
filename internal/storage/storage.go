package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations the archive needs.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	UploadObject(ctx context.Context, key, contentType string, data []byte) error
}

// Archiver keeps a copy of every produced digest and returns where it went.
type Archiver interface {
	Archive(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// ObjectArchiver stores digests under a key prefix of an object store.
type ObjectArchiver struct {
	store  ObjectStorage
	prefix string
	scheme string
}

func NewObjectArchiver(store ObjectStorage, bucket, prefix string) *ObjectArchiver {
	return &ObjectArchiver{
		store:  store,
		prefix: strings.Trim(prefix, "/"),
		scheme: "s3://" + bucket,
	}
}

func (a *ObjectArchiver) key(name string) string {
	return path.Join(a.prefix, name)
}

func (a *ObjectArchiver) Archive(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := a.key(name)
	if err := a.store.UploadObject(ctx, key, contentType, data); err != nil {
		return "", err
	}
	return a.scheme + "/" + key, nil
}

// List returns archived objects below the archive prefix.
func (a *ObjectArchiver) List(ctx context.Context, sub string) ([]ObjectInfo, error) {
	prefix := a.key(sub)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return a.store.ListObjects(ctx, prefix)
}

// MultiArchiver fans out to every configured archiver. Locations of the
// successful copies are returned together with the joined errors.
type MultiArchiver []Archiver

func (m MultiArchiver) Archive(ctx context.Context, name, contentType string, data []byte) (string, error) {
	var (
		locations []string
		errs      []error
	)
	for _, a := range m {
		loc, err := a.Archive(ctx, name, contentType, data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		locations = append(locations, loc)
	}
	if err := errors.Join(errs...); err != nil {
		return strings.Join(locations, ","), fmt.Errorf("archive %s: %w", name, err)
	}
	return strings.Join(locations, ","), nil
}
