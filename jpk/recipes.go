package jpk

import (
	"maps"

	"github.com/meigma/afmformats/jpk/internal/channel"
)

// Recipe maps canonical metadata keys to the property keys that may hold
// them, in order of preference. The first property present wins.
type Recipe map[string][]string

// Clone returns a deep copy of r.
func (r Recipe) Clone() Recipe {
	out := make(Recipe, len(r))
	for k, v := range r {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// resolve fills md from p using the recipe.
func (r Recipe) resolve(p Properties, md map[string]Value) {
	for key, candidates := range r {
		for _, c := range candidates {
			if v, ok := p[c]; ok {
				md[key] = v
				break
			}
		}
	}
}

const segmentSettings = "force-segment-header.settings.segment-settings."

var mapPrefixes = []string{"force-scan-map", "quantitative-imaging-map"}

func forEachPrefix(prefixes []string, suffix string) []string {
	out := make([]string, len(prefixes))
	for i, p := range prefixes {
		out[i] = p + "." + suffix
	}
	return out
}

// DefaultPrimaryRecipe returns the recipe for metadata stored in the
// resulting dataset.
func DefaultPrimaryRecipe() Recipe {
	series := []string{"force-scan-series", "force-scan-map", "quantitative-imaging-map"}
	return Recipe{
		"spring constant":  {"channel.vDeflection.conversion-set.conversion.force.scaling.multiplier"},
		"sensitivity":      {"channel.vDeflection.conversion-set.conversion.distance.scaling.multiplier"},
		"point count":      {"force-segment-header.num-points"},
		"duration":         {"force-segment-header.duration", segmentSettings + "duration"},
		"session id":       forEachPrefix(series, "header.session-id"),
		"instrument":       forEachPrefix(series, "description.instrument"),
		"software version": forEachPrefix(series, "description.source-software"),
		"grid center x":    forEachPrefix(mapPrefixes, "position-pattern.grid.xcenter"),
		"grid center y":    forEachPrefix(mapPrefixes, "position-pattern.grid.ycenter"),
		"grid shape x":     forEachPrefix(mapPrefixes, "position-pattern.grid.ilength"),
		"grid shape y":     forEachPrefix(mapPrefixes, "position-pattern.grid.jlength"),
		"grid size x":      forEachPrefix(mapPrefixes, "position-pattern.grid.ulength"),
		"grid size y":      forEachPrefix(mapPrefixes, "position-pattern.grid.vlength"),
		"grid index x":     {"force-segment-header.environment.xy-scanner-position-map.xy-scanners.position-pattern.grid-index.i"},
		"grid index y":     {"force-segment-header.environment.xy-scanner-position-map.xy-scanners.position-pattern.grid-index.j"},
		"position x":       {"force-segment-header.environment.xy-scanner-position-map.xy-scanner.tip-scanner.start-position.x"},
		"position y":       {"force-segment-header.environment.xy-scanner-position-map.xy-scanner.tip-scanner.start-position.y"},
	}
}

// DefaultSecondaryRecipe returns the recipe for segment-local values that
// are only used to derive metadata.
func DefaultSecondaryRecipe() Recipe {
	return Recipe{
		"curve type":         {segmentSettings + "style"},
		"segment duration":   {segmentSettings + "duration"},
		"z start":            {segmentSettings + "z-start"},
		"z end":              {segmentSettings + "z-end"},
		"segment pause type": {segmentSettings + "type"},
		"setpoint [V]":       {segmentSettings + "setpoint.value"},
		"time stamp":         {"force-segment-header.time-stamp"},
		"position index": {
			"force-segment-header.environment.xy-scanner-position-map.xy-scanners.position-index",
			"force-scan-series.header.position-index",
			"quantitative-imaging-series.header.position-index",
		},
	}
}

// DefaultUnits returns the canonical unit of each data column.
func DefaultUnits() map[string]string {
	return maps.Clone(channel.Units)
}
