package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMaterialSet_Vector(t *testing.T) {
	s := MaterialSet{Lithium: 1, Nickel: 2, Cobalt: 3, Manganese: 4, Graphite: 5, Aluminum: 6, Copper: 7}
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7}, s.Vector())
	assert.False(t, s.IsZero())
	assert.True(t, MaterialSet{}.IsZero())
}

func TestMaterialSetFromMap(t *testing.T) {
	t.Run("known keys", func(t *testing.T) {
		s, err := MaterialSetFromMap(map[string]float64{"Lithium": 0.1, "aluminium": 0.2})
		require.NoError(t, err)
		assert.InDelta(t, 0.1, s.Lithium, 1e-12)
		assert.InDelta(t, 0.2, s.Aluminum, 1e-12)
		assert.Zero(t, s.Copper)
	})

	t.Run("typo rejected", func(t *testing.T) {
		_, err := MaterialSetFromMap(map[string]float64{"nickle": 1})
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})
}

func TestMaterialSet_StrictYAML(t *testing.T) {
	var s MaterialSet
	dec := yaml.NewDecoder(stringsReader("lithium: 1\ncobolt: 2\n"))
	dec.KnownFields(true)
	assert.Error(t, dec.Decode(&s))
}

func TestMaterial_String(t *testing.T) {
	names := make([]string, 0, len(Materials()))
	for _, m := range Materials() {
		names = append(names, m.String())
	}
	assert.Equal(t, []string{"lithium", "nickel", "cobalt", "manganese", "graphite", "aluminum", "copper"}, names)
	assert.Equal(t, "Material(99)", Material(99).String())
}
