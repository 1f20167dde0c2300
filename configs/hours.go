package configs

// StoreHours is the display opening windows shown on store cards and the
// store page. Plain strings: the storefront renders them verbatim.
type StoreHours struct {
	StoreHours    string `json:"storeHours"`
	DeliveryHours string `json:"deliveryHours"`
}

// HoursByStoreSlug maps a store slug to its hours.
var HoursByStoreSlug = map[string]StoreHours{
	"hash-mart": {
		StoreHours:    "9:00 AM - 11:59 PM",
		DeliveryHours: "6:00 PM - 11:30 PM",
	},
	"royal-cash-and-carry": {
		StoreHours:    "8:30 AM - 11:00 PM",
		DeliveryHours: "5:30 PM - 11:00 PM",
	},
}

// DefaultHours is used for stores without a configured entry.
var DefaultHours = StoreHours{
	StoreHours:    "9:00 AM - 11:00 PM",
	DeliveryHours: "6:00 PM - 11:00 PM",
}

// GetStoreHours returns the hours for slug, falling back to DefaultHours.
func GetStoreHours(slug string) StoreHours {
	if hours, ok := HoursByStoreSlug[slug]; ok {
		return hours
	}
	return DefaultHours
}
