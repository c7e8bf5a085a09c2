package phoneindex

import (
	"testing"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

func operatorWith(name string, phones ...string) types.OperatorAssignments {
	return types.OperatorAssignments{
		OperatorName: name,
		Assignments: []types.Assignment{
			{OperatorName: name, BeneficiaryName: "b", Phones: phones},
		},
	}
}

func TestBuildNormalizesVariants(t *testing.T) {
	ix := Build([]types.OperatorAssignments{
		operatorWith("Ana Reyes", "+56 9 8765 4321"),
	})

	name, ok := ix.Lookup("87654321")
	if !ok {
		t.Fatal("expected suffix in index")
	}
	if name != "Ana Reyes" {
		t.Errorf("Lookup = %q, want Ana Reyes", name)
	}
}

func TestBuildSplitsPackedField(t *testing.T) {
	ix := Build([]types.OperatorAssignments{
		operatorWith("Ana Reyes", "987654321;922222222"),
	})

	if ix.Size() != 2 {
		t.Fatalf("expected 2 entries, got %d", ix.Size())
	}
	for _, suffix := range []string{"87654321", "22222222"} {
		if _, ok := ix.Lookup(suffix); !ok {
			t.Errorf("suffix %s missing from index", suffix)
		}
	}
}

func TestBuildSkipsUnusablePhones(t *testing.T) {
	ix := Build([]types.OperatorAssignments{
		operatorWith("Ana Reyes", "123", "sin fono", ""),
	})
	if ix.Size() != 0 {
		t.Errorf("expected empty index, got %d entries", ix.Size())
	}
}

func TestCollisionLastWriteWins(t *testing.T) {
	ix := Build([]types.OperatorAssignments{
		operatorWith("Ana Reyes", "987654321"),
		operatorWith("Rosa Fuentes", "56987654321"), // same suffix
	})

	if ix.Collisions() != 1 {
		t.Errorf("expected 1 collision, got %d", ix.Collisions())
	}
	name, _ := ix.Lookup("87654321")
	if name != "Rosa Fuentes" {
		t.Errorf("last write should win, got %q", name)
	}
}

func TestSameOperatorTwiceIsNotACollision(t *testing.T) {
	ix := Build([]types.OperatorAssignments{
		operatorWith("Ana Reyes", "987654321", "+56987654321"),
	})
	if ix.Collisions() != 0 {
		t.Errorf("duplicate phone for one operator counted as collision: %d", ix.Collisions())
	}
}
