package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, c := range All {
		got, err := Parse(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
		assert.NotEmpty(t, got.Placeholder())
		assert.NotEqual(t, string(c), got.Label())
	}

	_, err := Parse("je_dors")
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	assert.Equal(t, All[0], Default)
	assert.Equal(t, Default, OrDefault(""))
	assert.Equal(t, Activites, OrDefault(Activites))
	assert.Empty(t, Category("nope").Placeholder())
}
