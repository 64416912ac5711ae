package domain

import (
	"encoding/json"
	"fmt"
)

// VesselSpecs holds the structured specification sheet of a vessel.
//
// Known keys are typed fields; anything else is kept in Extra so that back-office
// data entry can add new keys without a schema change. The JSON form is flat.
type VesselSpecs struct {
	HullMaterial   *string
	Designer       *string
	Builder        *string
	Engines        *string
	Generator      *string
	Flag           *string
	Classification *string
	RefitYear      *int

	Extra map[string]any
}

const (
	specKeyHullMaterial   = "hullMaterial"
	specKeyDesigner       = "designer"
	specKeyBuilder        = "builder"
	specKeyEngines        = "engines"
	specKeyGenerator      = "generator"
	specKeyFlag           = "flag"
	specKeyClassification = "classification"
	specKeyRefitYear      = "refitYear"
)

func (s VesselSpecs) IsZero() bool {
	return s.HullMaterial == nil && s.Designer == nil && s.Builder == nil && s.Engines == nil &&
		s.Generator == nil && s.Flag == nil && s.Classification == nil && s.RefitYear == nil &&
		len(s.Extra) == 0
}

func (s VesselSpecs) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+8)
	for k, v := range s.Extra {
		out[k] = v
	}
	putString := func(k string, v *string) {
		if v != nil {
			out[k] = *v
		}
	}
	putString(specKeyHullMaterial, s.HullMaterial)
	putString(specKeyDesigner, s.Designer)
	putString(specKeyBuilder, s.Builder)
	putString(specKeyEngines, s.Engines)
	putString(specKeyGenerator, s.Generator)
	putString(specKeyFlag, s.Flag)
	putString(specKeyClassification, s.Classification)
	if s.RefitYear != nil {
		out[specKeyRefitYear] = *s.RefitYear
	}
	return json.Marshal(out)
}

func (s *VesselSpecs) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("vessel specs: %w", err)
	}
	*s = VesselSpecs{}
	targets := map[string]**string{
		specKeyHullMaterial:   &s.HullMaterial,
		specKeyDesigner:       &s.Designer,
		specKeyBuilder:        &s.Builder,
		specKeyEngines:        &s.Engines,
		specKeyGenerator:      &s.Generator,
		specKeyFlag:           &s.Flag,
		specKeyClassification: &s.Classification,
	}
	for k, v := range raw {
		if dst, ok := targets[k]; ok {
			var str *string
			if err := json.Unmarshal(v, &str); err != nil {
				return fmt.Errorf("vessel specs: %s: %w", k, err)
			}
			*dst = str
			continue
		}
		if k == specKeyRefitYear {
			var n *int
			if err := json.Unmarshal(v, &n); err != nil {
				return fmt.Errorf("vessel specs: %s: %w", k, err)
			}
			s.RefitYear = n
			continue
		}
		var anyV any
		if err := json.Unmarshal(v, &anyV); err != nil {
			return fmt.Errorf("vessel specs: %s: %w", k, err)
		}
		if s.Extra == nil {
			s.Extra = make(map[string]any)
		}
		s.Extra[k] = anyV
	}
	return nil
}
