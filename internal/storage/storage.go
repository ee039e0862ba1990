// Package storage uploads user-supplied files to object storage and
// returns a URL the operator can follow.
package storage

import (
	"context"
	"errors"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyObject is returned when Upload is called without content.
var ErrEmptyObject = errors.New("storage: empty object")

// Uploader stores an object under key and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds a collision-free key under prefix that keeps a cleaned
// copy of the original filename.
func ObjectKey(prefix, filename string) string {
	name := unsafeName.ReplaceAllString(path.Base(strings.ReplaceAll(filename, "\\", "/")), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "file"
	}
	key := uuid.NewString() + "-" + name
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

func joinURL(base string, parts ...string) string {
	out := strings.TrimRight(base, "/")
	for _, p := range parts {
		out += "/" + strings.TrimLeft(p, "/")
	}
	return out
}
