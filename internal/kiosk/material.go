package kiosk

// MaterialID identifies a recyclable material as named by the backend classifier.
type MaterialID string

const (
	MaterialPlastic  MaterialID = "plastico"
	MaterialAluminum MaterialID = "aluminio"
)

// MaterialConfig is the immutable display and scoring data for a material.
type MaterialConfig struct {
	DisplayName string
	Icon        string // Font Awesome class used by the browser kiosk; mapped to a glyph by the renderer
	Color       string // hex, e.g. "#2196F3"
	Points      int
	Description string
}

var materials = map[MaterialID]MaterialConfig{
	MaterialPlastic: {
		DisplayName: "Plástico",
		Icon:        "fas fa-bottle-water",
		Color:       "#2196F3",
		Points:      20,
		Description: "Botellas, envases y recipientes plásticos",
	},
	MaterialAluminum: {
		DisplayName: "Aluminio",
		Icon:        "fas fa-can-food",
		Color:       "#9E9E9E",
		Points:      30,
		Description: "Latas, envases y objetos de aluminio",
	},
}

// Lookup returns the registry entry for id. ok is false for unknown ids.
func Lookup(id MaterialID) (cfg MaterialConfig, ok bool) {
	cfg, ok = materials[id]
	return cfg, ok
}

// Known reports whether id is in the registry.
func (id MaterialID) Known() bool {
	_, ok := materials[id]
	return ok
}

// Materials returns the registered ids in a stable order.
func Materials() []MaterialID {
	return []MaterialID{MaterialPlastic, MaterialAluminum}
}
