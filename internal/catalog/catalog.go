// Package catalog loads the subject taxonomy shown to the user at session start.
package catalog

import (
	"context"
	"sort"

	"github.com/ethanbaker/wikiai/pkg/logging"
	"github.com/ethanbaker/wikiai/pkg/sdk"
	"go.uber.org/zap"
)

// Source fetches the subject mapping
type Source interface {
	Subjects(ctx context.Context) (sdk.Subjects, error)
}

// Group is one category group of the catalog
type Group struct {
	Key      string
	Name     string
	Subjects []string
}

// Catalog is the loaded taxonomy. The zero value is a valid empty catalog
type Catalog struct {
	groups map[string]Group
}

// New builds a catalog from the wire mapping
func New(subjects sdk.Subjects) Catalog {
	groups := make(map[string]Group, len(subjects))
	for key, g := range subjects {
		groups[key] = Group{
			Key:      key,
			Name:     g.Name,
			Subjects: append([]string(nil), g.Subjects...),
		}
	}
	return Catalog{groups: groups}
}

// Empty reports whether no group was loaded
func (c Catalog) Empty() bool {
	return len(c.groups) == 0
}

// Len is the number of groups
func (c Catalog) Len() int {
	return len(c.groups)
}

// Group returns the group with the given key
func (c Catalog) Group(key string) (Group, bool) {
	g, ok := c.groups[key]
	return g, ok
}

// Keys lists the group keys in sorted order
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c.groups))
	for key := range c.groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Groups lists every group ordered by key. Subject order is kept as loaded
func (c Catalog) Groups() []Group {
	out := make([]Group, 0, len(c.groups))
	for _, key := range c.Keys() {
		out = append(out, c.groups[key])
	}
	return out
}

// Load fetches the catalog once. A failure is logged and yields an empty
// catalog; the session works without one
func Load(ctx context.Context, source Source, logger *zap.Logger) Catalog {
	logger = logging.OrNop(logger).Named("catalog")

	subjects, err := source.Subjects(ctx)
	if err != nil {
		logger.Warn("failed to load subjects, continuing with an empty catalog", zap.Error(err))
		return Catalog{}
	}

	c := New(subjects)
	logger.Debug("subjects loaded", zap.Int("groups", c.Len()))
	return c
}
