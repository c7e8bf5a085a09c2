package classify

import (
	"testing"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

func TestIsSuccessful(t *testing.T) {
	positive := []string{
		"Llamado exitoso",
		"LLAMADA EXITOSA",
		"Beneficiario contactado",
		"contestada por familiar",
		"Atendida por la beneficiaria",
		"contacto logrado",
		"visita completada",
	}
	for _, text := range positive {
		if !IsSuccessful(text) {
			t.Errorf("IsSuccessful(%q) = false, want true", text)
		}
	}

	negative := []string{
		"No responde",
		"buzón de voz",
		"número equivocado",
		"ocupado",
		"",
	}
	for _, text := range negative {
		if IsSuccessful(text) {
			t.Errorf("IsSuccessful(%q) = true, want false", text)
		}
	}
}

func TestCategoryDefaultsToFallida(t *testing.T) {
	if got := Category("sin respuesta"); got != types.ResultFallida {
		t.Errorf("Category = %q, want fallida", got)
	}
	if got := Category("Llamado exitoso"); got != types.ResultExitosa {
		t.Errorf("Category = %q, want exitosa", got)
	}
}

func TestAmbiguousTextClassifiesPositive(t *testing.T) {
	// Contains both a positive and a negative keyword; the substring scan
	// wins, so this is exitosa. Documented product-level ambiguity.
	if !IsSuccessful("contactado pero no responde después") {
		t.Error("ambiguous text should classify as successful")
	}
}
