package textnorm

import "testing"

func TestFold(t *testing.T) {
	tests := map[string]string{
		"Más Alto":            "mas alto",
		"  Aprendizaje   y  ": "aprendizaje y",
		"ÑANDÚ":               "nandu",
		"":                    "",
	}
	for in, want := range tests {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHeaderKey(t *testing.T) {
	tests := map[string]string{
		"Meta Numérica":       "meta_numerica",
		"Responsable (email)": "responsable_email",
		"  Nombre  ":          "nombre",
		"Meta-Texto":          "meta_texto",
		"---":                 "",
	}
	for in, want := range tests {
		if got := HeaderKey(in); got != want {
			t.Errorf("HeaderKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripBOM(t *testing.T) {
	if got := StripBOM("\ufeffnombre;meta"); got != "nombre;meta" {
		t.Errorf("StripBOM = %q", got)
	}
	if got := StripBOM("nombre"); got != "nombre" {
		t.Errorf("StripBOM changed a clean string: %q", got)
	}
}
