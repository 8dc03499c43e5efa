// socvariant.go - per-target compile-time constants

package powerdfs

// socVariant collects the SoC-specific constants that Configurator
// needs. Rather than scatter conditional compilation through the
// configurator, every target's quirks live in one table keyed by a
// target identifier string, set once at Manager construction.
type socVariant struct {
	// refClkDivMin is the minimum allowed reference-clock divider;
	// configure() rejects a min_mhz that would push the divider
	// below this when min_mhz < XTAL.
	refClkDivMin int

	// unifiedPLL is true on SoCs whose PLL cannot switch between
	// 240 MHz and the 80/160 MHz range without being disabled -
	// apb_max follows the 240-or-80 quirk instead of a plain cap.
	unifiedPLL bool

	// apbCapMHz is the SoC's maximum APB frequency, used on SoCs
	// where unifiedPLL is false.
	apbCapMHz int

	// radioApbFloorMHz raises apbCap to at least this value whenever
	// a radio subsystem is enabled (0 means no radio floor applies).
	radioApbFloorMHz int
}

// Known target variants. Names are illustrative of the family of SoC
// this table shape was learned from (original_source/components/esp_pm);
// an embedding firmware selects one at Manager construction via
// WithSoCVariant.
var socVariants = map[string]socVariant{
	"generic-dual-core": {
		refClkDivMin:     10,
		unifiedPLL:       true,
		apbCapMHz:        80,
		radioApbFloorMHz: 80,
	},
	"generic-single-core": {
		refClkDivMin:     2,
		unifiedPLL:       false,
		apbCapMHz:        80,
		radioApbFloorMHz: 40,
	},
	"generic-riscv": {
		refClkDivMin:     2,
		unifiedPLL:       false,
		apbCapMHz:        40,
		radioApbFloorMHz: 0,
	},
}

const defaultSoCVariant = "generic-dual-core"

func lookupSoCVariant(name string) socVariant {
	if v, ok := socVariants[name]; ok {
		return v
	}
	return socVariants[defaultSoCVariant]
}

// apbMax computes apb_max_mhz per spec.md §4.4: the unified-PLL quirk
// on SoCs that cannot run the PLL at 240 MHz alongside 80/160 MHz,
// otherwise a straight cap raised to the radio floor and to min_mhz.
func (v socVariant) apbMax(maxMHz, minMHz int, radioEnabled bool) int {
	var apbMax int
	if v.unifiedPLL {
		switch {
		case maxMHz == 240:
			apbMax = 240
		case maxMHz == 160 || maxMHz == 80:
			apbMax = 80
		default:
			apbMax = maxMHz
		}
	} else {
		apbCap := v.apbCapMHz
		if radioEnabled && v.radioApbFloorMHz > apbCap {
			apbCap = v.radioApbFloorMHz
		}
		apbMax = min(maxMHz, apbCap)
	}
	if apbMax < minMHz {
		apbMax = minMHz
	}
	return apbMax
}
