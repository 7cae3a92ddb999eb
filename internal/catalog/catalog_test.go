package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	item, ok := c.AvatarItem("wizard_hat")
	require.True(t, ok)
	assert.Equal(t, 15, item.Price)
	assert.Equal(t, "headwear", item.Category)

	_, ok = c.AvatarItem("no_such_item")
	assert.False(t, ok)

	fox, ok := c.Avatar("fox")
	require.True(t, ok)
	assert.Zero(t, fox.Price)

	pack, ok := c.WorldPack("forest_glade")
	require.True(t, ok)
	assert.Equal(t, 30, pack.Price)
}

func TestTiers(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	tiers := c.Tiers()
	require.Len(t, tiers, 4)

	// Levels ascend with strictly increasing cost and limits.
	for i, tier := range tiers {
		assert.Equal(t, i+1, tier.Level)
		if i > 0 {
			assert.Greater(t, tier.Cost, tiers[i-1].Cost)
			assert.GreaterOrEqual(t, tier.Limits.MaxProjects, tiers[i-1].Limits.MaxProjects)
		}
	}

	base, ok := c.Tier(1)
	require.True(t, ok)
	assert.Zero(t, base.Cost)

	_, ok = c.Tier(5)
	assert.False(t, ok)
}

func TestListingsAreSorted(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	items := c.AvatarItems()
	require.NotEmpty(t, items)
	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i-1].Key, items[i].Key)
	}

	avatars := c.Avatars()
	require.Len(t, avatars, 6)
}
