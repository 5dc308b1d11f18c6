package validate

import (
	"testing"

	"github.com/ppiankov/notequiz/internal/lexicon"
)

func TestIsGibberish(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", true},
		{"single char", "a", true},
		{"whitespace only", "   ", true},
		{"spaced letters", "H e l l o w o r l d", true},
		{"digits only", "12345 678 90", true},
		{"noise run", "aaaaa bbb", true},
		{"noise run across spaces", "aa aaa bcd", true},
		{"mostly symbols", "#### ---- ab", true},
		{"spaced accented letters", "Ñ á é í ó ú", true},
		{"two letters", "ab", false},
		{"short phrase", "Ura H2O da", false},
		{"single word", "Fotosintesia", false},
		{"accented letters count", "Àéíóú ñandú", false},
		{"real definition", "Osagai bat baino gehiago duen materia mota", false},
		{"four repeats allowed", "kaaaa ondo dago", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGibberish(tt.in); got != tt.want {
				t.Errorf("IsGibberish(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsInvalidContent(t *testing.T) {
	gate := NewGate(nil)

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"question mark", "Zer da ura?", true},
		{"inverted question mark", "¿Qué es el agua en estado sólido", true},
		{"numbered exercise dot", "1. Kalkulatu abiadura eta distantzia orain", true},
		{"numbered exercise paren", "2) Bilatu hitzak testuan eta azaldu", true},
		{"short heading", "Laburra da", true},
		{"label prefix", "Causas de la guerra civil española", true},
		{"label suffix", "Estas fueron las principales consecuencias", true},
		{"label case-insensitive", "CAUSAS de la guerra civil española", true},
		{"workbook keyword", "Irakurri testua eta behatu irudia arretaz", true},
		{"workbook keyword inside word", "Zure iritziz zein da garrantzitsuena", true},
		{"declarative definition", "Osagai bat baino gehiago duen materia mota", false},
		{"label in the middle", "Las causas económicas provocaron una gran crisis", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.IsInvalidContent(tt.in); got != tt.want {
				t.Errorf("IsInvalidContent(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsValidOption(t *testing.T) {
	lex := lexicon.Default()
	lex.GenericLabels = append(lex.GenericLabels, "una etiqueta genérica de seis palabras")
	gate := NewGate(lex)

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"six words", "Osagai bat baino gehiago duen materia", true},
		{"trimmed", "   Osagai bat baino gehiago duen materia   ", true},
		{"five words", "Bost hitz dituen esaldi laburra", false},
		{"question", "Zergatik gertatzen da hau beti horrela?", false},
		{"equals label", "Una etiqueta genérica de seis palabras", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.IsValidOption(tt.in); got != tt.want {
				t.Errorf("IsValidOption(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestGate_EnglishLexicon(t *testing.T) {
	lex, err := lexicon.ByName("en")
	if err != nil {
		t.Fatal(err)
	}
	gate := NewGate(lex)

	if !gate.IsInvalidContent("Observe the picture and describe the scene") {
		t.Error("Expected workbook instruction to be invalid")
	}
	if !gate.IsInvalidContent("Causes of the first world war") {
		t.Error("Expected label-led heading to be invalid")
	}
	if gate.IsInvalidContent("A mixture contains more than one kind of substance") {
		t.Error("Expected declarative sentence to be valid")
	}
}

func TestGates_Idempotent(t *testing.T) {
	gate := NewGate(nil)
	inputs := []string{
		"Zer da ura?",
		"Osagai bat baino gehiago duen materia mota",
		"H e l l o w o r l d",
		"1. Kalkulatu abiadura",
		"",
	}

	for _, in := range inputs {
		if IsGibberish(in) != IsGibberish(in) {
			t.Errorf("IsGibberish not stable for %q", in)
		}
		if gate.IsInvalidContent(in) != gate.IsInvalidContent(in) {
			t.Errorf("IsInvalidContent not stable for %q", in)
		}
		if gate.IsValidOption(in) != gate.IsValidOption(in) {
			t.Errorf("IsValidOption not stable for %q", in)
		}
	}
}

func TestScenario_QuestionLineNeverPasses(t *testing.T) {
	gate := NewGate(nil)
	if !gate.IsInvalidContent("Zer da ura?") {
		t.Error("Expected interrogative to fail the invalid-content gate")
	}
	if gate.IsValidOption("Zer da ura? Ura substantzia bat da beti") {
		t.Error("Expected interrogative to fail the option gate")
	}
}
