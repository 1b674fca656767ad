package domain

import "time"

// Item is a catalog product. Only ID matters to ranking; the rest is
// carried through so responses can return full product records.
type Item struct {
	ID          int     `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Category    string  `json:"category" yaml:"category"`
	Description string  `json:"description" yaml:"description"`
	Price       float64 `json:"price" yaml:"price"`
	Stock       float64 `json:"stock" yaml:"stock"`
	ImageURL    string  `json:"imageUrl" yaml:"image_url"`
}

// Text is the string fed to the embedding model for this item.
func (it Item) Text() string {
	return it.Name + " | " + it.Category + " | " + it.Description
}

// InteractionEvent is one append-only user/item interaction.
//
// A zero Timestamp marks a record whose timestamp could not be parsed.
// Such events still count toward popularity but carry no taste signal.
type InteractionEvent struct {
	Timestamp time.Time `json:"ts"`
	UserID    int       `json:"userId"`
	ItemID    int       `json:"productId"`
	Kind      EventKind `json:"event"`
}

// ScoredItem is a ranked catalog item.
type ScoredItem struct {
	Item  Item    `json:"item"`
	Score float64 `json:"score"`
}
