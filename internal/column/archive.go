package column

import (
	"bytes"
	"context"
	"encoding/json"
	"path"
	"strings"
	"time"

	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/fsarwari/pgCompare/internal/filestore"
	"github.com/google/uuid"
)

const archiveContentType = "application/json"

// Archive is the stored form of one fetched column map.
type Archive struct {
	RunID     string    `json:"runId"`
	Role      string    `json:"role"`
	Engine    string    `json:"engine"`
	Schema    string    `json:"schema"`
	Table     string    `json:"table"`
	FetchedAt time.Time `json:"fetchedAt"`
	Columns   []Column  `json:"columns"`
}

// NewArchive stamps cols with a fresh run id and the current time.
func NewArchive(role, engine, schema, table string, cols []Column) *Archive {
	if cols == nil {
		cols = []Column{}
	}
	return &Archive{
		RunID:     uuid.NewString(),
		Role:      role,
		Engine:    engine,
		Schema:    schema,
		Table:     table,
		FetchedAt: time.Now().UTC(),
		Columns:   cols,
	}
}

// ArchiveKey is the object key a column map is stored under:
// <prefix>/<role>/<schema>/<table>.json, all lowercased. A later fetch of
// the same table overwrites the earlier one.
func ArchiveKey(prefix, role, schema, table string) string {
	name := strings.ToLower(table) + ".json"
	return path.Join(strings.Trim(prefix, "/"), strings.ToLower(role), strings.ToLower(schema), name)
}

// Save writes a to bucket under ArchiveKey(prefix, ...).
func Save(ctx context.Context, store filestore.Store, bucket, prefix string, a *Archive) (*filestore.ObjectInfo, error) {
	if a.Table == "" || a.Role == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "archive: role and table are required")
	}

	body, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "archive: encode column map", err)
	}

	key := ArchiveKey(prefix, a.Role, a.Schema, a.Table)
	info, err := store.PutObject(ctx, bucket, key, bytes.NewReader(body), int64(len(body)), archiveContentType)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "archive: store "+key, err)
	}
	return info, nil
}

// Load reads the archive stored at key.
func Load(ctx context.Context, store filestore.Store, bucket, key string) (*Archive, error) {
	obj, err := store.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "archive: load "+key, err)
	}
	defer obj.Close()

	var a Archive
	if err := json.NewDecoder(obj).Decode(&a); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "archive: decode "+key, err)
	}
	return &a, nil
}

// List returns the keys of every archive under prefix.
func List(ctx context.Context, store filestore.Store, bucket, prefix string) ([]string, error) {
	p := strings.Trim(prefix, "/")
	if p != "" {
		p += "/"
	}
	objs, err := store.ListObjects(ctx, bucket, filestore.ListOptions{Prefix: p, Recursive: true})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "archive: list", err)
	}

	keys := make([]string, 0, len(objs))
	for _, o := range objs {
		if !o.IsDir && strings.HasSuffix(o.Key, ".json") {
			keys = append(keys, o.Key)
		}
	}
	return keys, nil
}
