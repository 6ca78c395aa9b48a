package catalogue_test

import (
	"regexp"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/programsmith/internal/catalogue"
)

func allIDs() []string {
	var ids []string
	for _, e := range catalogue.All() {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestGroupedCoversEveryID(t *testing.T) {
	var grouped []string
	for _, g := range catalogue.Grouped() {
		if len(g.IDs) == 0 {
			t.Errorf("group %q is empty", g.Group)
		}
		grouped = append(grouped, g.IDs...)
	}
	if diff := cmp.Diff(allIDs(), grouped); diff != "" {
		t.Errorf("Grouped() does not cover the registry in order (-want +got):\n%s", diff)
	}
}

func TestIDsAreKebabCase(t *testing.T) {
	kebab := regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)
	for _, id := range allIDs() {
		if !kebab.MatchString(id) {
			t.Errorf("id %q is not kebab-case", id)
		}
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{id: "barbell-bench-press", want: true},
		{id: "barbell-bench-press-v2", want: false},
		{id: "", want: false},
		{id: "Push-Up", want: false},
	}
	for _, tt := range tests {
		if got := catalogue.Contains(tt.id); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

// Bodyweight-only programs must be able to fill every slot the split templates use.
func TestBodyweightOptionPerCorePattern(t *testing.T) {
	patterns := []catalogue.Pattern{
		catalogue.PatternHorizontalPush,
		catalogue.PatternVerticalPush,
		catalogue.PatternHorizontalPull,
		catalogue.PatternVerticalPull,
		catalogue.PatternRearDelt,
		catalogue.PatternSquat,
		catalogue.PatternLunge,
		catalogue.PatternHinge,
		catalogue.PatternKneeFlexion,
		catalogue.PatternCalfRaise,
		catalogue.PatternElbowExtension,
		catalogue.PatternCore,
		catalogue.PatternConditioning,
	}
	for _, p := range patterns {
		hasBodyweight := slices.ContainsFunc(catalogue.ByPattern(p), func(e catalogue.Entry) bool {
			return e.Equipment == catalogue.EquipmentBodyweight
		})
		if !hasBodyweight {
			t.Errorf("pattern %q has no bodyweight exercise", p)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := catalogue.All()
	all[0].ID = "mutated"
	if catalogue.All()[0].ID == "mutated" {
		t.Error("All() exposes the registry backing array")
	}
	if _, ok := catalogue.Lookup("overhead-press"); !ok {
		t.Error("Lookup(overhead-press) not found")
	}
}
