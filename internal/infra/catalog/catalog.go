// Package catalog provides the built-in content the engine runs on: the
// collectible card pool, a starter question bank and the drug
// compatibility table. Each can be replaced by a YAML file.
package catalog

import (
	"github.com/nursequest/nursequest/internal/app/clinical"
	"github.com/nursequest/nursequest/internal/domain"
)

// Cards is the built-in card pool. Every rarity must have at least one
// card so a drawn rarity never falls back to the whole pool.
var Cards = []domain.Card{
	{ID: "siringa", Name: "Siringa", Rarity: domain.RarityCommon, Topic: "strumenti"},
	{ID: "sfigmo", Name: "Sfigmomanometro", Rarity: domain.RarityCommon, Topic: "strumenti"},
	{ID: "fonendo", Name: "Fonendoscopio", Rarity: domain.RarityCommon, Topic: "strumenti"},
	{ID: "termometro", Name: "Termometro", Rarity: domain.RarityCommon, Topic: "strumenti"},
	{ID: "saturimetro", Name: "Saturimetro", Rarity: domain.RarityCommon, Topic: "strumenti"},
	{ID: "garza", Name: "Garza sterile", Rarity: domain.RarityCommon, Topic: "medicazioni"},
	{ID: "cerotto", Name: "Cerotto", Rarity: domain.RarityCommon, Topic: "medicazioni"},
	{ID: "ago_cannula", Name: "Ago cannula", Rarity: domain.RarityCommon, Topic: "accessi"},
	{ID: "deflussore", Name: "Deflussore", Rarity: domain.RarityCommon, Topic: "accessi"},
	{ID: "guanti", Name: "Guanti monouso", Rarity: domain.RarityCommon, Topic: "igiene"},
	{ID: "pompa", Name: "Pompa infusionale", Rarity: domain.RarityRare, Topic: "accessi"},
	{ID: "picc", Name: "PICC", Rarity: domain.RarityRare, Topic: "accessi"},
	{ID: "ecg", Name: "Elettrocardiografo", Rarity: domain.RarityRare, Topic: "monitoraggio"},
	{ID: "news2", Name: "Scheda NEWS2", Rarity: domain.RarityRare, Topic: "valutazione"},
	{ID: "glasgow", Name: "Scala di Glasgow", Rarity: domain.RarityRare, Topic: "valutazione"},
	{ID: "braden", Name: "Scala di Braden", Rarity: domain.RarityRare, Topic: "valutazione"},
	{ID: "defibrillatore", Name: "Defibrillatore", Rarity: domain.RarityEpic, Topic: "emergenza"},
	{ID: "carrello", Name: "Carrello delle emergenze", Rarity: domain.RarityEpic, Topic: "emergenza"},
	{ID: "ventilatore", Name: "Ventilatore polmonare", Rarity: domain.RarityEpic, Topic: "terapia intensiva"},
	{ID: "nightingale", Name: "Florence Nightingale", Rarity: domain.RarityLegendary, Topic: "storia"},
	{ID: "henderson", Name: "Virginia Henderson", Rarity: domain.RarityLegendary, Topic: "storia"},
}

// Questions is the starter quiz bank.
var Questions = []domain.Question{
	{ID: "farm-01", Category: "farmacologia", Difficulty: domain.DifficultyEasy,
		Prompt:  "Quale via di somministrazione ha l'assorbimento più rapido?",
		Options: []string{"Orale", "Endovenosa", "Intramuscolare", "Sottocutanea"}, Answer: 1},
	{ID: "farm-02", Category: "farmacologia", Difficulty: domain.DifficultyMedium,
		Prompt:  "L'antidoto dell'eparina non frazionata è:",
		Options: []string{"Vitamina K", "Naloxone", "Protamina solfato", "Flumazenil"}, Answer: 2},
	{ID: "farm-03", Category: "farmacologia", Difficulty: domain.DifficultyHard,
		Prompt:  "Il potassio cloruro concentrato può essere somministrato:",
		Options: []string{"In bolo lento", "Solo diluito in infusione", "Per via intramuscolare", "In bolo rapido"}, Answer: 1},
	{ID: "farm-04", Category: "farmacologia", Difficulty: domain.DifficultyMedium,
		Prompt:  "L'antidoto degli oppioidi è:",
		Options: []string{"Naloxone", "Atropina", "Glucagone", "Protamina"}, Answer: 0},
	{ID: "val-01", Category: "valutazione", Difficulty: domain.DifficultyEasy,
		Prompt:  "Il punteggio minimo della Glasgow Coma Scale è:",
		Options: []string{"0", "1", "3", "5"}, Answer: 2},
	{ID: "val-02", Category: "valutazione", Difficulty: domain.DifficultyMedium,
		Prompt:  "Un NEWS2 aggregato di 7 indica un rischio clinico:",
		Options: []string{"Basso", "Medio", "Alto", "Nullo"}, Answer: 2},
	{ID: "val-03", Category: "valutazione", Difficulty: domain.DifficultyHard,
		Prompt:  "Nella scala 1 di NEWS2 una SpO2 di 92% vale:",
		Options: []string{"0", "1", "2", "3"}, Answer: 2},
	{ID: "val-04", Category: "valutazione", Difficulty: domain.DifficultyEasy,
		Prompt:  "La scala di Braden valuta il rischio di:",
		Options: []string{"Cadute", "Lesioni da pressione", "Malnutrizione", "Delirium"}, Answer: 1},
	{ID: "emer-01", Category: "emergenza", Difficulty: domain.DifficultyEasy,
		Prompt:  "Il rapporto compressioni:ventilazioni nell'adulto in RCP è:",
		Options: []string{"15:2", "30:2", "5:1", "30:1"}, Answer: 1},
	{ID: "emer-02", Category: "emergenza", Difficulty: domain.DifficultyMedium,
		Prompt:  "La frequenza delle compressioni toraciche raccomandata è:",
		Options: []string{"60-80/min", "80-100/min", "100-120/min", "120-140/min"}, Answer: 2},
	{ID: "emer-03", Category: "emergenza", Difficulty: domain.DifficultyHard,
		Prompt:  "Nell'anafilassi l'adrenalina IM nell'adulto si somministra alla dose di:",
		Options: []string{"0,05 mg", "0,5 mg", "1 mg", "5 mg"}, Answer: 1},
	{ID: "igi-01", Category: "igiene", Difficulty: domain.DifficultyEasy,
		Prompt:  "Il frizionamento alcolico delle mani dura almeno:",
		Options: []string{"5 secondi", "20-30 secondi", "2 minuti", "5 minuti"}, Answer: 1},
	{ID: "igi-02", Category: "igiene", Difficulty: domain.DifficultyMedium,
		Prompt:  "Il Clostridioides difficile richiede il lavaggio delle mani con:",
		Options: []string{"Gel alcolico", "Acqua e sapone", "Solo guanti", "Clorexidina alcolica"}, Answer: 1},
	{ID: "acc-01", Category: "accessi", Difficulty: domain.DifficultyMedium,
		Prompt:  "Un PICC ha la punta posizionata in:",
		Options: []string{"Vena basilica", "Vena cava superiore", "Atrio destro", "Vena succlavia"}, Answer: 1},
	{ID: "acc-02", Category: "accessi", Difficulty: domain.DifficultyHard,
		Prompt:  "Il lavaggio di un catetere venoso centrale si esegue con tecnica:",
		Options: []string{"A flusso continuo", "Pulsante (push-pause)", "A gravità", "Per aspirazione"}, Answer: 1},
}

// Compat is the built-in directional Y-site compatibility table.
var Compat = []clinical.CompatEntry{
	{Drug: "furosemide", Other: "midazolam", Severity: "incompatible", Note: "precipitazione"},
	{Drug: "midazolam", Other: "furosemide", Severity: "incompatible"},
	{Drug: "morfina", Other: "midazolam", Severity: "compatible"},
	{Drug: "midazolam", Other: "morfina", Severity: "compatible"},
	{Drug: "eparina", Other: "morfina", Severity: "variable", Note: "dipende dalla concentrazione"},
	{Drug: "amiodarone", Other: "eparina", Severity: "incompatible"},
	{Drug: "eparina", Other: "amiodarone", Severity: "variable"},
	{Drug: "potassio cloruro", Other: "amiodarone", Severity: "compatible"},
	{Drug: "pantoprazolo", Other: "midazolam", Severity: "incompatible"},
	{Drug: "noradrenalina", Other: "eparina", Severity: "compatible"},
	{Drug: "noradrenalina", Other: "furosemide", Severity: "incompatible"},
	{Drug: "dobutamina", Other: "furosemide", Severity: "incompatible", Note: "precipitazione"},
	{Drug: "insulina", Other: "potassio cloruro", Severity: "compatible"},
	{Drug: "propofol", Other: "midazolam", Severity: "variable"},
}

// CompatTable indexes Compat.
func CompatTable() (*clinical.CompatTable, error) {
	return clinical.NewCompatTable(Compat)
}
