package domain

// Nutrient names in storage column order. Reordering this list changes the
// food_items schema and the positional record layout.
var catalog = [...]string{
	"calcium_ca", "carbohydrates", "cholesterol", "energy", "fatty_acids_saturated",
	"total_lipid_fat", "fatty_acids_trans", "iron_fe", "fiber_dietary", "potassium_k",
	"sodium_na", "protein", "sugars_total", "sugars_added", "vitamin_d", "alanine",
	"alcohol_ethyl", "arginine", "ash", "aspartic_acid", "betaine", "caffeine",
	"campesterol", "carotene_alpha", "carotene_beta", "vitamin_d3",
	"choline_total", "cryptoxanthin_beta", "copper_cu", "cystine", "energy_kj",
	"vitamin_d2", "fatty_acids_monounsaturated", "fatty_acids_polyunsaturated",
	"fatty_acids_transmonoenoic", "fatty_acids_transpolyenoic", "fluoride_f", "folate_total",
	"folic_acid", "folate_dfe", "folate_food", "fructose", "galactose", "glutamic_acid",
	"glucose_dextrose", "glycine", "histidine", "hydroxyproline", "isoleucine", "lactose",
	"leucine", "lutein_zeaxanthin", "lycopene", "lysine", "maltose", "methionine",
	"magnesium_mg", "menaquinone", "manganese_mn", "niacin", "vitamin_e_added", "vitamin_b_added",
	"adjusted_protein", "phosphorus_p", "pantothenic_acid", "phenylalanine", "phytosterols",
	"proline", "retinol", "riboflavin", "selenium_se", "serine", "betasitosterol", "starch",
	"stigmasterol", "sucrose", "theobromine", "thiamin", "threonine", "vitamin_e_alphatocopherol",
	"tocopherol_beta", "tocopherol_delta", "tocopherol_gamma", "tryptophan", "tyrosine", "valine",
	"vitamin_a_iu", "vitamin_a_rae", "vitamin_b12", "vitamin_b6", "vitamin_c_total_ascorbic_acid",
	"vitamin_k_phylloquinone", "dihydrophylloquinone", "water", "zinc_zn",
	"tocotrienol_alpha", "tocotrienol_beta", "tocotrienol_gamma", "tocotrienol_delta",
}

// Nutritionix attr_id codes for every catalog nutrient
var codeToName = map[uint32]string{
	301: "calcium_ca",
	205: "carbohydrates",
	601: "cholesterol",
	208: "energy",
	606: "fatty_acids_saturated",
	204: "total_lipid_fat",
	605: "fatty_acids_trans",
	303: "iron_fe",
	291: "fiber_dietary",
	306: "potassium_k",
	307: "sodium_na",
	203: "protein",
	269: "sugars_total",
	539: "sugars_added",
	324: "vitamin_d",
	513: "alanine",
	221: "alcohol_ethyl",
	511: "arginine",
	207: "ash",
	514: "aspartic_acid",
	454: "betaine",
	262: "caffeine",
	639: "campesterol",
	322: "carotene_alpha",
	321: "carotene_beta",
	326: "vitamin_d3",
	421: "choline_total",
	334: "cryptoxanthin_beta",
	312: "copper_cu",
	507: "cystine",
	268: "energy_kj",
	325: "vitamin_d2",
	645: "fatty_acids_monounsaturated",
	646: "fatty_acids_polyunsaturated",
	693: "fatty_acids_transmonoenoic",
	695: "fatty_acids_transpolyenoic",
	313: "fluoride_f",
	417: "folate_total",
	431: "folic_acid",
	435: "folate_dfe",
	432: "folate_food",
	212: "fructose",
	287: "galactose",
	515: "glutamic_acid",
	211: "glucose_dextrose",
	516: "glycine",
	512: "histidine",
	521: "hydroxyproline",
	503: "isoleucine",
	213: "lactose",
	504: "leucine",
	338: "lutein_zeaxanthin",
	337: "lycopene",
	505: "lysine",
	214: "maltose",
	506: "methionine",
	304: "magnesium_mg",
	428: "menaquinone",
	315: "manganese_mn",
	406: "niacin",
	573: "vitamin_e_added",
	578: "vitamin_b_added",
	257: "adjusted_protein",
	305: "phosphorus_p",
	410: "pantothenic_acid",
	508: "phenylalanine",
	636: "phytosterols",
	517: "proline",
	319: "retinol",
	405: "riboflavin",
	317: "selenium_se",
	518: "serine",
	641: "betasitosterol",
	209: "starch",
	638: "stigmasterol",
	210: "sucrose",
	263: "theobromine",
	404: "thiamin",
	502: "threonine",
	323: "vitamin_e_alphatocopherol",
	341: "tocopherol_beta",
	343: "tocopherol_delta",
	342: "tocopherol_gamma",
	501: "tryptophan",
	509: "tyrosine",
	510: "valine",
	318: "vitamin_a_iu",
	320: "vitamin_a_rae",
	418: "vitamin_b12",
	415: "vitamin_b6",
	401: "vitamin_c_total_ascorbic_acid",
	430: "vitamin_k_phylloquinone",
	429: "dihydrophylloquinone",
	255: "water",
	309: "zinc_zn",
	344: "tocotrienol_alpha",
	345: "tocotrienol_beta",
	346: "tocotrienol_gamma",
	347: "tocotrienol_delta",
}

var catalogIndex = func() map[string]int {
	idx := make(map[string]int, len(catalog))
	for i, name := range catalog {
		idx[name] = i
	}
	return idx
}()

// Catalog returns the nutrient names in column order. The returned slice is a
// copy; callers may modify it freely.
func Catalog() []string {
	out := make([]string, len(catalog))
	copy(out, catalog[:])
	return out
}

// CatalogSize is the number of nutrients in the catalog.
func CatalogSize() int {
	return len(catalog)
}

// IsCatalogNutrient reports whether name is a known nutrient.
func IsCatalogNutrient(name string) bool {
	_, ok := catalogIndex[name]
	return ok
}

// NutrientName resolves an external nutrient code to its catalog name.
func NutrientName(code uint32) (string, bool) {
	name, ok := codeToName[code]
	return name, ok
}
