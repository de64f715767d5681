package shelltypes

// Layer identifies one of the registry layers a command can live in.
type Layer int

const (
	// LayerBuiltin holds commands shipped with a shell type.
	LayerBuiltin Layer = iota
	// LayerUnified holds commands available identically in every shell type.
	LayerUnified
	// LayerAddon holds commands registered by Go addons.
	LayerAddon
	// LayerMod holds commands registered by loaded mod manifests.
	LayerMod
)

// Layers lists every layer in listing order.
var Layers = []Layer{LayerBuiltin, LayerUnified, LayerAddon, LayerMod}

// Valid reports whether l is one of Layers.
func (l Layer) Valid() bool {
	return l >= LayerBuiltin && l <= LayerMod
}

// String returns a human-readable name for the layer.
func (l Layer) String() string {
	switch l {
	case LayerBuiltin:
		return "builtin"
	case LayerUnified:
		return "unified"
	case LayerAddon:
		return "addon"
	case LayerMod:
		return "mod"
	default:
		return "unknown"
	}
}
