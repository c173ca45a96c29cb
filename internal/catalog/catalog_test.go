package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/ethanbaker/wikiai/pkg/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSource struct {
	subjects sdk.Subjects
	err      error
}

func (f fakeSource) Subjects(ctx context.Context) (sdk.Subjects, error) {
	return f.subjects, f.err
}

func TestLoad(t *testing.T) {
	source := fakeSource{subjects: sdk.Subjects{
		"sciences":    {Name: "Sciences", Subjects: []string{"Mathématiques", "Physique", "Chimie"}},
		"litterature": {Name: "Littérature", Subjects: []string{"Français", "Anglais"}},
	}}

	c := Load(context.Background(), source, nil)
	require.False(t, c.Empty())
	assert.Equal(t, []string{"litterature", "sciences"}, c.Keys())

	g, ok := c.Group("sciences")
	require.True(t, ok)
	assert.Equal(t, "Sciences", g.Name)
	assert.Equal(t, []string{"Mathématiques", "Physique", "Chimie"}, g.Subjects)

	groups := c.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "litterature", groups[0].Key)

	// The catalog does not alias the source mapping
	source.subjects["sciences"].Subjects[0] = "changed"
	g, _ = c.Group("sciences")
	assert.Equal(t, "Mathématiques", g.Subjects[0])
}

func TestLoadFailureYieldsEmptyCatalog(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	c := Load(context.Background(), fakeSource{err: errors.New("connection refused")}, zap.New(core))
	assert.True(t, c.Empty())
	assert.Empty(t, c.Keys())
	assert.Empty(t, c.Groups())

	_, ok := c.Group("sciences")
	assert.False(t, ok)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
}

func TestZeroCatalog(t *testing.T) {
	var c Catalog
	assert.True(t, c.Empty())
	assert.Equal(t, 0, c.Len())
}
