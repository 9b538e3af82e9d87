package tone

import "contra/internal/types"

// registry holds one strategy per tone. Built once at init; read-only after.
var registry = map[types.Tone]Strategy{
	types.ToneDramatic:    dramaticStrategy{base(types.ToneDramatic)},
	types.TonePoetic:      poeticStrategy{base(types.TonePoetic)},
	types.ToneHumorous:    humorousStrategy{base(types.ToneHumorous)},
	types.ToneTechnical:   technicalStrategy{base(types.ToneTechnical)},
	types.ToneSimple:      simpleStrategy{base(types.ToneSimple)},
	types.ToneInformative: informativeStrategy{base(types.ToneInformative)},
}

func base(t types.Tone) baseStrategy {
	return baseStrategy{tone: t, text: copyTable[t]}
}

// Lookup returns the strategy for t, or the informative strategy when t is
// not a registered tone.
func Lookup(t types.Tone) Strategy {
	if s, ok := registry[t]; ok {
		return s
	}
	return registry[types.ToneInformative]
}

// Registry exposes the full tone table, for exhaustiveness checks and tone
// pickers.
func Registry() map[types.Tone]Strategy {
	out := make(map[types.Tone]Strategy, len(registry))
	for k, v := range registry {
		out[k] = v
	}
	return out
}
