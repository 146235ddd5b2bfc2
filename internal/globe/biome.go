package globe

// Biome tags a tile's ecological class.
type Biome uint8

const (
	BiomeOcean Biome = iota
	BiomeSeaIce
	BiomeGlacier
	BiomeTundra
	BiomeTaiga
	BiomeDesert
	BiomeGrassland
	BiomeShrubland
	BiomeTropicalRainforest
	BiomeTropicalSeasonalForest
	BiomeTemperateRainforest
	BiomeTemperateDeciduousForest
	BiomeLake

	NumBiomes = int(BiomeLake) + 1
)

var biomeNames = [NumBiomes]string{
	"ocean", "seaIce", "glacier", "tundra", "taiga", "desert", "grassland",
	"shrubland", "tropicalRainforest", "tropicalSeasonalForest",
	"temperateRainforest", "temperateDeciduousForest", "lake",
}

// String returns the biome's camel-case tag.
func (b Biome) String() string {
	if int(b) < NumBiomes {
		return biomeNames[b]
	}
	return "unknown"
}

// ParseBiome resolves a tag produced by String.
func ParseBiome(s string) (Biome, bool) {
	for i, n := range biomeNames {
		if n == s {
			return Biome(i), true
		}
	}
	return 0, false
}

// Resource enumerates per-tile yields.
type Resource uint8

const (
	ResourceWheat Resource = iota
	ResourceCorn
	ResourceRice
	ResourceFish
	ResourceGold
	ResourceIron
	ResourceOil
	ResourceBauxite
	ResourceCopper

	NumResources = int(ResourceCopper) + 1
)

var resourceNames = [NumResources]string{
	"wheat", "corn", "rice", "fish", "gold", "iron", "oil", "bauxite", "copper",
}

func (r Resource) String() string {
	if int(r) < NumResources {
		return resourceNames[r]
	}
	return "unknown"
}

// Resources holds one non-negative intensity per Resource.
type Resources [NumResources]float64

// Crops lists the calorie-producing resources.
var Crops = []Resource{ResourceWheat, ResourceCorn, ResourceRice, ResourceFish}

// RareResources lists the percentile-normalized mineral resources.
var RareResources = []Resource{ResourceIron, ResourceOil, ResourceBauxite, ResourceCopper, ResourceGold}
