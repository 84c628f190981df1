package components

import "fmt"

// GeneKey names one heritable trait.
type GeneKey uint8

const (
	OptimalTemperature GeneKey = iota
	OptimalPH
	MetabolicEfficiency
	ReproductionThreshold
	ChemotaxisSensitivity
)

// NumGenes is the size of every organism's gene set.
const NumGenes = 5

// AllGenes lists the gene keys in schema order.
var AllGenes = [NumGenes]GeneKey{
	OptimalTemperature,
	OptimalPH,
	MetabolicEfficiency,
	ReproductionThreshold,
	ChemotaxisSensitivity,
}

var geneNames = [NumGenes]string{
	"optimalTemperature",
	"optimalPH",
	"metabolicEfficiency",
	"reproductionThreshold",
	"chemotaxisSensitivity",
}

// String returns the gene's schema name.
func (k GeneKey) String() string {
	if int(k) < len(geneNames) {
		return geneNames[k]
	}
	return fmt.Sprintf("GeneKey(%d)", k)
}

// ParseGeneKey maps a schema name back to its key.
func ParseGeneKey(name string) (GeneKey, error) {
	for i, n := range geneNames {
		if n == name {
			return GeneKey(i), nil
		}
	}
	return 0, fmt.Errorf("unknown gene %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k GeneKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *GeneKey) UnmarshalText(b []byte) error {
	key, err := ParseGeneKey(string(b))
	if err != nil {
		return err
	}
	*k = key
	return nil
}

// Genes is the fixed five-trait gene set. Every organism carries the same schema.
type Genes struct {
	OptimalTemperature    float64 `json:"optimalTemperature"`
	OptimalPH             float64 `json:"optimalPH"`
	MetabolicEfficiency   float64 `json:"metabolicEfficiency"`   // max nutrient uptake per step
	ReproductionThreshold float64 `json:"reproductionThreshold"` // energy needed to divide
	ChemotaxisSensitivity float64 `json:"chemotaxisSensitivity"` // gradient-following gain
}

// Get returns the value of one gene.
func (g *Genes) Get(k GeneKey) float64 {
	switch k {
	case OptimalTemperature:
		return g.OptimalTemperature
	case OptimalPH:
		return g.OptimalPH
	case MetabolicEfficiency:
		return g.MetabolicEfficiency
	case ReproductionThreshold:
		return g.ReproductionThreshold
	case ChemotaxisSensitivity:
		return g.ChemotaxisSensitivity
	}
	panic(fmt.Sprintf("components: %v out of range", k))
}

// Set assigns the value of one gene.
func (g *Genes) Set(k GeneKey, v float64) {
	switch k {
	case OptimalTemperature:
		g.OptimalTemperature = v
	case OptimalPH:
		g.OptimalPH = v
	case MetabolicEfficiency:
		g.MetabolicEfficiency = v
	case ReproductionThreshold:
		g.ReproductionThreshold = v
	case ChemotaxisSensitivity:
		g.ChemotaxisSensitivity = v
	default:
		panic(fmt.Sprintf("components: %v out of range", k))
	}
}

// Values returns the genes in schema order.
func (g *Genes) Values() [NumGenes]float64 {
	var out [NumGenes]float64
	for i, k := range AllGenes {
		out[i] = g.Get(k)
	}
	return out
}
