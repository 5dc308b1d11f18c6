package lexicon

var defaultSeparators = []string{": ", " - ", " — ", " = "}

var defaultBulletMarkers = []string{"-", "•", "*"}

// basqueSpanish matches the classroom notes the tool was built for: Basque
// workbooks (exercise keywords, question wording) mixed with Spanish history
// notes (section labels, paraphrase rules).
func basqueSpanish() *Lexicon {
	return &Lexicon{
		Name:          "eu-es",
		Separators:    append([]string(nil), defaultSeparators...),
		BulletMarkers: append([]string(nil), defaultBulletMarkers...),
		GenericLabels: []string{
			"definición", "causas", "quiénes eran", "características",
			"consecuencias", "objetivos", "ventajas", "desventajas",
		},
		WorkbookKeywords: []string{
			"behat", "ulertu", "arrazoi", "alderatu", "pentsamendu",
			"galder", "ariketa", "iritzi", "espazioan", "kokatu",
		},
		NegationRules: []NegationRule{
			{Words: []string{"es", "era", "fue", "son", "eran", "fueron"}, Prefix: "no "},
			{Words: []string{"tenía", "tenían", "tiene", "tienen"}, Prefix: "carecía de lo que "},
			{Words: []string{"da", "dira", "zen", "ziren", "du", "dute", "zuen", "zuten"}, Prefix: "ez "},
		},
		TemporalSwaps: []map[string]string{
			{"siempre": "a veces", "nunca": "raramente", "beti": "batzuetan", "inoiz": "gutxitan"},
			{"todos": "algunos", "todas": "algunas", "algunos": "todos", "algunas": "todas", "guztiak": "batzuk"},
			{"primero": "finalmente", "finalmente": "primero", "después": "antes", "antes": "después", "lehenik": "azkenik"},
		},
		Fillers: []string{
			"Este concepto surgió en un contexto histórico diferente al mencionado en las notas",
			"La interpretación tradicional difiere significativamente de esta definición según los historiadores",
			"Los estudios recientes sugieren una perspectiva alternativa sobre este tema histórico",
		},
		StemTemplate:   `Zer da "%s"?`,
		Explanation:    "Ebidentzia: zure apunteetako lerroa (ikus behean).",
		AbstainMessage: "Ez da nahikoa informazio aurkitu apunteetan. Igo argazki argiagoak edo itsatsi testu gehiago.",
	}
}

func english() *Lexicon {
	return &Lexicon{
		Name:          "en",
		Separators:    append([]string(nil), defaultSeparators...),
		BulletMarkers: append([]string(nil), defaultBulletMarkers...),
		GenericLabels: []string{
			"definition", "causes", "who they were", "characteristics",
			"consequences", "objectives", "advantages", "disadvantages",
		},
		WorkbookKeywords: []string{
			"observe", "understand", "reasoning", "compare", "thinking",
			"question", "exercise", "opinion", "in the space", "locate",
		},
		NegationRules: []NegationRule{
			{Words: []string{"is", "was", "were", "are"}, Suffix: " not"},
			{Words: []string{"had", "has", "have"}, Prefix: "lacked what it "},
		},
		TemporalSwaps: []map[string]string{
			{"always": "sometimes", "never": "rarely", "sometimes": "always"},
			{"all": "some", "every": "some", "some": "all"},
			{"first": "finally", "finally": "first", "before": "after", "after": "before"},
		},
		Fillers: []string{
			"This concept emerged in a different historical context than the one described in the notes",
			"The traditional interpretation differs significantly from this definition according to historians",
			"Recent studies suggest an alternative perspective on this historical topic",
		},
		StemTemplate:   `What is "%s"?`,
		Explanation:    "Evidence: the line from your notes (see below).",
		AbstainMessage: "Not enough material was found in the notes. Upload clearer photos or paste more text.",
	}
}
