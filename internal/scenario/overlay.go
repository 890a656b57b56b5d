package scenario

import "bytes"

// Presence records which fields a partial scenario document set itself,
// as opposed to inheriting them from the base it was decoded onto.
type Presence struct {
	// GridFactor is set when the document gave sources.grid.emission_factor,
	// zero included.
	GridFactor  bool
	CarbonPrice bool
	Materials   bool
}

// presenceDoc mirrors the parts of Config whose inherited values must not
// merge with a document's.
type presenceDoc struct {
	CarbonPrice *CarbonPrice `yaml:"carbon_price" json:"carbon_price"`
	Materials   *MaterialSet `yaml:"materials" json:"materials"`
	Sources     *struct {
		Grid *struct {
			EmissionFactor *float64 `yaml:"emission_factor" json:"emission_factor"`
		} `yaml:"grid" json:"grid"`
	} `yaml:"sources" json:"sources"`
}

// Overlay finishes layering a partial scenario document over a base. cfg is
// the result of strictly decoding doc onto a clone of the base; unmarshal
// is the matching json.Unmarshal or yaml.Unmarshal.
//
// Decoders merge nested values, so a document giving only carbon_price.value
// would keep an inherited path or named scenario, both of which outrank the
// value. Overlay replaces the price source and the material composition
// whole when doc sets them. The carbon basis is inherited unless doc sets
// it too.
func Overlay(cfg Config, doc []byte, unmarshal func([]byte, any) error) (Config, Presence, error) {
	if len(bytes.TrimSpace(doc)) == 0 {
		return cfg, Presence{}, nil
	}
	var p presenceDoc
	if err := unmarshal(doc, &p); err != nil {
		return cfg, Presence{}, err
	}

	var got Presence
	if p.CarbonPrice != nil {
		price := *p.CarbonPrice
		if price.Basis == "" {
			price.Basis = cfg.CarbonPrice.Basis
		}
		cfg.CarbonPrice = price
		got.CarbonPrice = true
	}
	if p.Materials != nil {
		cfg.Materials = p.Materials
		got.Materials = true
	}
	if p.Sources != nil && p.Sources.Grid != nil && p.Sources.Grid.EmissionFactor != nil {
		got.GridFactor = true
	}
	return cfg, got, nil
}
