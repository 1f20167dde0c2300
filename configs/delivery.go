package configs

// Locations is the list of neighborhoods the storefront delivers to, in
// display order. The first entry is the default selection.
var Locations = []string{"Sector H-13", "Bahria Phase 8"}

// DeliverableByLocation maps a location to the store slugs that deliver
// there.
var DeliverableByLocation = map[string][]string{
	"Sector H-13":    {"royal-cash-and-carry"},
	"Bahria Phase 8": {"hash-mart"},
}

// DefaultLocation is used when a shopper has not picked a location yet.
var DefaultLocation = Locations[0]

// DeliverableSlugs returns the store slugs serving location, falling back to
// the default location for anything unknown.
func DeliverableSlugs(location string) []string {
	if slugs, ok := DeliverableByLocation[location]; ok {
		return slugs
	}
	return DeliverableByLocation[DefaultLocation]
}
