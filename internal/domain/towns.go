package domain

// connecticutTowns lists the 169 incorporated Connecticut towns, upper-cased
// to match NormalizeTown output. The geographic analysis is defined over this
// set; records naming anything else (out-of-state towns, villages, blank
// values) are excluded and counted by the cleaner.
var connecticutTowns = []string{
	"ANDOVER", "ANSONIA", "ASHFORD", "AVON",
	"BARKHAMSTED", "BEACON FALLS", "BERLIN", "BETHANY", "BETHEL", "BETHLEHEM",
	"BLOOMFIELD", "BOLTON", "BOZRAH", "BRANFORD", "BRIDGEPORT", "BRIDGEWATER",
	"BRISTOL", "BROOKFIELD", "BROOKLYN", "BURLINGTON",
	"CANAAN", "CANTERBURY", "CANTON", "CHAPLIN", "CHESHIRE", "CHESTER",
	"CLINTON", "COLCHESTER", "COLEBROOK", "COLUMBIA", "CORNWALL", "COVENTRY",
	"CROMWELL",
	"DANBURY", "DARIEN", "DEEP RIVER", "DERBY", "DURHAM",
	"EASTFORD", "EAST GRANBY", "EAST HADDAM", "EAST HAMPTON", "EAST HARTFORD",
	"EAST HAVEN", "EAST LYME", "EASTON", "EAST WINDSOR", "ELLINGTON",
	"ENFIELD", "ESSEX",
	"FAIRFIELD", "FARMINGTON", "FRANKLIN",
	"GLASTONBURY", "GOSHEN", "GRANBY", "GREENWICH", "GRISWOLD", "GROTON",
	"GUILFORD",
	"HADDAM", "HAMDEN", "HAMPTON", "HARTFORD", "HARTLAND", "HARWINTON",
	"HEBRON",
	"KENT", "KILLINGLY", "KILLINGWORTH",
	"LEBANON", "LEDYARD", "LISBON", "LITCHFIELD", "LYME",
	"MADISON", "MANCHESTER", "MANSFIELD", "MARLBOROUGH", "MERIDEN",
	"MIDDLEBURY", "MIDDLEFIELD", "MIDDLETOWN", "MILFORD", "MONROE",
	"MONTVILLE", "MORRIS",
	"NAUGATUCK", "NEW BRITAIN", "NEW CANAAN", "NEW FAIRFIELD", "NEW HARTFORD",
	"NEW HAVEN", "NEWINGTON", "NEW LONDON", "NEW MILFORD", "NEWTOWN",
	"NORFOLK", "NORTH BRANFORD", "NORTH CANAAN", "NORTH HAVEN",
	"NORTH STONINGTON", "NORWALK", "NORWICH",
	"OLD LYME", "OLD SAYBROOK", "ORANGE", "OXFORD",
	"PLAINFIELD", "PLAINVILLE", "PLYMOUTH", "POMFRET", "PORTLAND", "PRESTON",
	"PROSPECT", "PUTNAM",
	"REDDING", "RIDGEFIELD", "ROCKY HILL", "ROXBURY",
	"SALEM", "SALISBURY", "SCOTLAND", "SEYMOUR", "SHARON", "SHELTON",
	"SHERMAN", "SIMSBURY", "SOMERS", "SOUTHBURY", "SOUTHINGTON",
	"SOUTH WINDSOR", "SPRAGUE", "STAFFORD", "STAMFORD", "STERLING",
	"STONINGTON", "STRATFORD", "SUFFIELD",
	"THOMASTON", "THOMPSON", "TOLLAND", "TORRINGTON", "TRUMBULL",
	"UNION",
	"VERNON", "VOLUNTOWN",
	"WALLINGFORD", "WARREN", "WASHINGTON", "WATERBURY", "WATERFORD",
	"WATERTOWN", "WESTBROOK", "WEST HARTFORD", "WEST HAVEN", "WESTON",
	"WESTPORT", "WETHERSFIELD", "WILLINGTON", "WILTON", "WINCHESTER",
	"WINDHAM", "WINDSOR", "WINDSOR LOCKS", "WOLCOTT", "WOODBRIDGE",
	"WOODBURY", "WOODSTOCK",
}

// TownRegistry answers membership queries for canonical Connecticut towns.
type TownRegistry struct {
	towns map[string]struct{}
}

// NewTownRegistry builds the registry of the 169 incorporated CT towns.
func NewTownRegistry() *TownRegistry {
	r := &TownRegistry{towns: make(map[string]struct{}, len(connecticutTowns))}
	for _, t := range connecticutTowns {
		r.towns[t] = struct{}{}
	}
	return r
}

// Recognized reports whether name (already normalized) is a canonical town.
func (r *TownRegistry) Recognized(name string) bool {
	_, ok := r.towns[name]
	return ok
}

// Len returns the number of canonical towns.
func (r *TownRegistry) Len() int { return len(r.towns) }
