package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/moonstead/moonstead/internal/catalog/domain"
)

//go:embed data/*.json
var catalogData embed.FS

// Catalog holds the static purchasable-item definitions bundled with the
// binary. Read-only after Load.
type Catalog struct {
	avatarItems map[string]domain.AvatarItem
	avatars     map[string]domain.Avatar
	worldPacks  map[string]domain.WorldPack
	tiers       map[int]domain.Tier
}

// Load parses the embedded catalog files.
func Load() (*Catalog, error) {
	c := &Catalog{
		avatarItems: map[string]domain.AvatarItem{},
		avatars:     map[string]domain.Avatar{},
		worldPacks:  map[string]domain.WorldPack{},
		tiers:       map[int]domain.Tier{},
	}

	var items []domain.AvatarItem
	if err := loadFile("data/avatar_items.json", &items); err != nil {
		return nil, err
	}
	for _, item := range items {
		c.avatarItems[item.Key] = item
	}

	var avatars []domain.Avatar
	if err := loadFile("data/avatars.json", &avatars); err != nil {
		return nil, err
	}
	for _, avatar := range avatars {
		c.avatars[avatar.ID] = avatar
	}

	var packs []domain.WorldPack
	if err := loadFile("data/world_packs.json", &packs); err != nil {
		return nil, err
	}
	for _, pack := range packs {
		c.worldPacks[pack.ID] = pack
	}

	var tiers []domain.Tier
	if err := loadFile("data/tiers.json", &tiers); err != nil {
		return nil, err
	}
	for _, tier := range tiers {
		c.tiers[tier.Level] = tier
	}

	return c, nil
}

func loadFile(name string, out any) error {
	raw, err := catalogData.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse catalog %s: %w", name, err)
	}
	return nil
}

// AvatarItem looks up one avatar item by key.
func (c *Catalog) AvatarItem(key string) (domain.AvatarItem, bool) {
	item, ok := c.avatarItems[key]
	return item, ok
}

// Avatar looks up one avatar by id.
func (c *Catalog) Avatar(id string) (domain.Avatar, bool) {
	avatar, ok := c.avatars[id]
	return avatar, ok
}

// WorldPack looks up one world pack by id.
func (c *Catalog) WorldPack(id string) (domain.WorldPack, bool) {
	pack, ok := c.worldPacks[id]
	return pack, ok
}

// Tier looks up one design-studio tier by level.
func (c *Catalog) Tier(level int) (domain.Tier, bool) {
	tier, ok := c.tiers[level]
	return tier, ok
}

// AvatarItems lists all avatar items sorted by key.
func (c *Catalog) AvatarItems() []domain.AvatarItem {
	out := make([]domain.AvatarItem, 0, len(c.avatarItems))
	for _, item := range c.avatarItems {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Avatars lists all avatars sorted by id.
func (c *Catalog) Avatars() []domain.Avatar {
	out := make([]domain.Avatar, 0, len(c.avatars))
	for _, avatar := range c.avatars {
		out = append(out, avatar)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// WorldPacks lists all world packs sorted by id.
func (c *Catalog) WorldPacks() []domain.WorldPack {
	out := make([]domain.WorldPack, 0, len(c.worldPacks))
	for _, pack := range c.worldPacks {
		out = append(out, pack)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Tiers lists all tiers in ascending level order.
func (c *Catalog) Tiers() []domain.Tier {
	out := make([]domain.Tier, 0, len(c.tiers))
	for _, tier := range c.tiers {
		out = append(out, tier)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}
