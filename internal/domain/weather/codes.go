package weather

// descriptions maps WMO weather interpretation codes to Swedish text.
var descriptions = map[int]string{
	0:  "Klart",
	1:  "Mestadels klart",
	2:  "Halvklart",
	3:  "Mulet",
	4:  "Rök",
	5:  "Dis",
	10: "Fuktdis",
	18: "Stormbyar",
	19: "Skydrag",
	45: "Dimma",
	48: "Underkyld dimma",
	51: "Lätt duggregn",
	53: "Måttligt duggregn",
	55: "Tätt duggregn",
	56: "Lätt underkylt duggregn",
	57: "Tätt underkylt duggregn",
	61: "Lätt regn",
	63: "Måttligt regn",
	65: "Kraftigt regn",
	66: "Lätt underkylt regn",
	67: "Kraftigt underkylt regn",
	71: "Lätt snöfall",
	73: "Måttligt snöfall",
	75: "Kraftigt snöfall",
	77: "Snökorn",
	80: "Lätta regnskurar",
	81: "Måttliga regnskurar",
	82: "Kraftiga regnskurar",
	85: "Lätta snöbyar",
	86: "Kraftiga snöbyar",
	95: "Åska",
	96: "Åska med lätt hagel",
	99: "Åska med kraftigt hagel",
}

// Describe returns the description for code, or nil when the code is unknown.
func Describe(code int) *string {
	desc, ok := descriptions[code]
	if !ok {
		return nil
	}
	return &desc
}
