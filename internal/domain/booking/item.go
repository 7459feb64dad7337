package booking

import "sort"

// ItemType represents the kind of physical item placed into storage.
type ItemType string

const (
	ItemTypeBed      ItemType = "bed"
	ItemTypeFridge   ItemType = "fridge"
	ItemTypeBox      ItemType = "box"
	ItemTypeSuitcase ItemType = "suitcase"
	ItemTypeOther    ItemType = "other"
)

// IsValid returns true if the item type is recognized.
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeBed, ItemTypeFridge, ItemTypeBox, ItemTypeSuitcase, ItemTypeOther:
		return true
	}
	return false
}

// ItemTypeNames returns the closed item-type vocabulary in lexical order.
func ItemTypeNames() []string {
	names := []string{
		string(ItemTypeBed),
		string(ItemTypeFridge),
		string(ItemTypeBox),
		string(ItemTypeSuitcase),
		string(ItemTypeOther),
	}
	sort.Strings(names)
	return names
}

// Item is a physical item within a booking. Items are created in bulk at
// booking creation and never mutated independently.
type Item struct {
	Type       ItemType `json:"item_type"`
	Name       string   `json:"item_name"`
	StorageKey string   `json:"s3_key"`
}
