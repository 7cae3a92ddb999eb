package domain

// AvatarItem is a purchasable cosmetic worn by an avatar.
type AvatarItem struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int    `json:"price"`
}

// Avatar is a full character. Price 0 marks a free starter avatar.
type Avatar struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// WorldPack unlocks a themed region on the kid's world map.
type WorldPack struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
}

// TierLimits describes what a design-studio tier allows.
type TierLimits struct {
	MaxProjects int  `json:"maxProjects"`
	MaxShapes   int  `json:"maxShapes"`
	Animations  bool `json:"animations"`
}

// Tier is one design-studio tier with its unlock cost. Tier 1 is the free
// baseline and carries cost 0.
type Tier struct {
	Level  int        `json:"level"`
	Cost   int        `json:"cost"`
	Limits TierLimits `json:"limits"`
}
