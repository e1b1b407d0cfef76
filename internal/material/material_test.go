package material

import (
	"fmt"
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	for _, id := range IDs() {
		def, ok := Lookup(id)
		if !ok {
			t.Errorf("missing definition for %q", id)
			continue
		}
		if def.Label == "" {
			t.Errorf("%q: empty label", id)
		}
		if def.Base.A == 0 {
			t.Errorf("%q: base color is fully transparent", id)
		}
	}

	if _, ok := Lookup("velvet"); ok {
		t.Error("expected lookup miss for unknown material")
	}
}

func TestOptionsListsEveryMaterial(t *testing.T) {
	options := Options()
	for _, id := range IDs() {
		def, _ := Lookup(id)
		if !strings.Contains(options, fmt.Sprintf("%s (%s)", id, def.Label)) {
			t.Errorf("options missing %q with its label: %q", id, options)
		}
	}
}

func TestOnlyWoodHasPattern(t *testing.T) {
	for _, id := range IDs() {
		def, _ := Lookup(id)
		hasPattern := def.PatternURL != ""
		if hasPattern != (id == Wood) {
			t.Errorf("%q: unexpected pattern URL %q", id, def.PatternURL)
		}
	}
}
