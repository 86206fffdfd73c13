package catalog

// FallbackIcon is shown for any icon key the front end does not know.
const FallbackIcon = "Wifi"

// icons are the keys the front end can render.
var icons = map[string]bool{
	"Waves":       true,
	"Dumbbell":    true,
	"Sparkles":    true,
	"Utensils":    true,
	"Building":    true,
	"Trees":       true,
	"ShoppingBag": true,
	"MapPin":      true,
	"Wifi":        true,
	"Wine":        true,
}

// Icon returns key if it is a known icon, otherwise FallbackIcon.
func Icon(key string) string {
	if icons[key] {
		return key
	}
	return FallbackIcon
}
