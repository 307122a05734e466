package game

// RegionRange is the inclusive Pokédex-number span of one region.
type RegionRange struct {
	Start int
	End   int
}

// RegionRanges maps the region filter values accepted by rooms to their
// Pokédex spans.
var RegionRanges = map[string]RegionRange{
	"all":    {Start: 1, End: 1010},
	"kanto":  {Start: 1, End: 151},
	"johto":  {Start: 152, End: 251},
	"hoenn":  {Start: 252, End: 386},
	"sinnoh": {Start: 387, End: 493},
	"unova":  {Start: 494, End: 649},
	"kalos":  {Start: 650, End: 721},
	"alola":  {Start: 722, End: 809},
	"galar":  {Start: 810, End: 905},
	"paldea": {Start: 906, End: 1025},
}

// RegionOrAll resolves a region filter value, falling back to "all" for
// unknown names.
func RegionOrAll(region string) RegionRange {
	if r, ok := RegionRanges[region]; ok {
		return r
	}
	return RegionRanges["all"]
}
