// Package memory provides an in-process filestore.Store. Objects live only
// as long as the Store; it backs local runs and tests.
package memory

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/fsarwari/pgCompare/internal/filestore"
)

type entry struct {
	data []byte
	info filestore.ObjectInfo
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	buckets map[string]map[string]entry
	now     func() time.Time
}

var _ filestore.Store = (*Store)(nil)

func New() *Store {
	return &Store{buckets: make(map[string]map[string]entry), now: time.Now}
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (s *Store) EnsureBucket(_ context.Context, bucket string) error {
	if bucket == "" {
		return errs.New(errs.ErrKindInvalidInput, "bucket name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[bucket]; !ok {
		s.buckets[bucket] = make(map[string]entry)
	}
	return nil
}

func (s *Store) PutObject(ctx context.Context, bucket, key string, r io.Reader, _ int64, contentType string) (*filestore.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "put cancelled", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to read object body", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	objs, ok := s.buckets[bucket]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "bucket %q does not exist", bucket)
	}
	sum := md5.Sum(data)
	info := filestore.ObjectInfo{
		Key:          key,
		Size:         int64(len(data)),
		ContentType:  contentType,
		ETag:         hex.EncodeToString(sum[:]),
		LastModified: s.now(),
	}
	objs[key] = entry{data: data, info: info}
	return &info, nil
}

// ListObjects returns keys in lexical order. Without Recursive, keys below
// the next "/" after the prefix collapse into one IsDir entry.
func (s *Store) ListObjects(_ context.Context, bucket string, opts filestore.ListOptions) ([]filestore.ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objs, ok := s.buckets[bucket]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "bucket %q does not exist", bucket)
	}

	keys := make([]string, 0, len(objs))
	for k := range objs {
		if strings.HasPrefix(k, opts.Prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var out []filestore.ObjectInfo
	seenDirs := make(map[string]bool)
	for _, k := range keys {
		if !opts.Recursive {
			rest := k[len(opts.Prefix):]
			if i := strings.Index(rest, "/"); i >= 0 {
				dir := opts.Prefix + rest[:i+1]
				if !seenDirs[dir] {
					seenDirs[dir] = true
					out = append(out, filestore.ObjectInfo{Key: dir, IsDir: true})
				}
				if opts.Limit > 0 && len(out) >= opts.Limit {
					break
				}
				continue
			}
		}
		out = append(out, objs[k].info)
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) GetObject(_ context.Context, bucket, key string) (filestore.Object, error) {
	e, err := s.lookup(bucket, key)
	if err != nil {
		return nil, err
	}
	info := e.info
	return &object{Reader: bytes.NewReader(e.data), info: &info}, nil
}

func (s *Store) StatObject(_ context.Context, bucket, key string) (*filestore.ObjectInfo, error) {
	e, err := s.lookup(bucket, key)
	if err != nil {
		return nil, err
	}
	info := e.info
	return &info, nil
}

func (s *Store) lookup(bucket, key string) (entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objs, ok := s.buckets[bucket]
	if !ok {
		return entry{}, errs.Newf(errs.ErrKindNotFound, "bucket %q does not exist", bucket)
	}
	e, ok := objs[key]
	if !ok {
		return entry{}, errs.Newf(errs.ErrKindNotFound, "object %q not found", key)
	}
	return e, nil
}

type object struct {
	*bytes.Reader
	info *filestore.ObjectInfo
}

func (o *object) Close() error                { return nil }
func (o *object) Info() *filestore.ObjectInfo { return o.info }
