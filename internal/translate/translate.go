// Package translate provides best-effort French naming enrichment for catalog
// entries, backed by a static dictionary loaded at startup.
package translate

import (
	"encoding/json"
	"log"
	"strings"

	"plantcare-backend/internal/model"
)

// Translation is one dictionary entry.
type Translation struct {
	FrenchName   string
	Alternatives []string
}

var dictionary = map[string]Translation{
	// Firs
	"european silver fir": {"Sapin pectiné", []string{"Sapin blanc européen", "Abies alba"}},
	"white fir":           {"Sapin du Colorado", []string{"Sapin blanc", "Abies concolor"}},
	"fraser fir":          {"Sapin de Fraser", []string{"Abies fraseri"}},
	"noble fir":           {"Sapin noble", []string{"Abies procera"}},
	"alpine fir":          {"Sapin subalpin", []string{"Abies lasiocarpa"}},

	// Maples
	"japanese maple":  {"Érable du Japon", []string{"Acer palmatum"}},
	"amur maple":      {"Érable de l'Amour", []string{"Acer ginnala"}},
	"paperbark maple": {"Érable à écorce de papier", []string{"Acer griseum"}},
	"big leaf maple":  {"Érable à grandes feuilles", []string{"Acer macrophyllum"}},

	// Common houseplants
	"monstera deliciosa": {"Monstera", []string{"Faux philodendron", "Plante gruyère"}},
	"snake plant":        {"Sansevieria", []string{"Langue de belle-mère", "Plante serpent"}},
	"rubber plant":       {"Caoutchouc", []string{"Ficus elastica", "Hévéa"}},
	"spider plant":       {"Plante araignée", []string{"Chlorophytum", "Phalangère"}},
	"aloe vera":          {"Aloès", []string{"Aloe vera"}},
	"zz plant":           {"Zamioculcas", []string{"Plante ZZ", "Zamioculcas zamiifolia"}},

	// Garden plants
	"lavender": {"Lavande", []string{"Lavandula"}},
	"rosemary": {"Romarin", []string{"Rosmarinus"}},
	"basil":    {"Basilic", []string{"Ocimum basilicum"}},
	"mint":     {"Menthe", []string{"Mentha"}},
	"rose":     {"Rose", []string{"Rosier"}},
}

// Lookup finds a translation for a common name, first by exact match, then by
// substring in either direction.
func Lookup(commonName string) (Translation, bool) {
	name := strings.ToLower(strings.TrimSpace(commonName))
	if name == "" {
		return Translation{}, false
	}
	if t, ok := dictionary[name]; ok {
		return t, true
	}
	for english, t := range dictionary {
		if strings.Contains(name, english) || strings.Contains(english, name) {
			return t, true
		}
	}
	return Translation{}, false
}

// Enrich fills the French naming fields on a plant that lacks them. It
// reports whether the plant was modified; a miss only logs.
func Enrich(p *model.Plant) bool {
	if p.FrenchName != "" {
		return false
	}

	t, ok := Lookup(p.CommonName)
	if !ok {
		log.Printf("No auto-translation found for plant: %s", p.CommonName)
		return false
	}

	p.FrenchName = t.FrenchName
	if raw, err := json.Marshal(t.Alternatives); err == nil {
		p.AlternativeNames = string(raw)
	}
	log.Printf("Auto-translated plant: %s -> %s", p.CommonName, t.FrenchName)
	return true
}
