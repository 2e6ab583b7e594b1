package domain

import "strings"

var countryRegions = map[string]Region{
	"south korea": RegionAsia, "korea": RegionAsia, "japan": RegionAsia, "china": RegionAsia,
	"india": RegionAsia, "thailand": RegionAsia, "singapore": RegionAsia, "philippines": RegionAsia,
	"indonesia": RegionAsia, "malaysia": RegionAsia, "vietnam": RegionAsia, "taiwan": RegionAsia,
	"hong kong": RegionAsia,

	"spain": RegionEurope, "france": RegionEurope, "italy": RegionEurope, "germany": RegionEurope,
	"united kingdom": RegionEurope, "uk": RegionEurope, "portugal": RegionEurope, "poland": RegionEurope,
	"greece": RegionEurope, "netherlands": RegionEurope, "belgium": RegionEurope,
	"switzerland": RegionEurope, "austria": RegionEurope, "sweden": RegionEurope,
	"norway": RegionEurope, "denmark": RegionEurope, "finland": RegionEurope,

	"united states": RegionNorthAmerica, "usa": RegionNorthAmerica, "us": RegionNorthAmerica,
	"canada": RegionNorthAmerica, "mexico": RegionNorthAmerica,

	"argentina": RegionSouthAmerica, "brazil": RegionSouthAmerica, "chile": RegionSouthAmerica,
	"colombia": RegionSouthAmerica, "peru": RegionSouthAmerica, "uruguay": RegionSouthAmerica,
	"venezuela": RegionSouthAmerica, "ecuador": RegionSouthAmerica, "paraguay": RegionSouthAmerica,
	"bolivia": RegionSouthAmerica,

	"south africa": RegionAfrica, "egypt": RegionAfrica, "morocco": RegionAfrica,
	"nigeria": RegionAfrica, "kenya": RegionAfrica,

	"australia": RegionOceania, "new zealand": RegionOceania,

	"israel": RegionMiddleEast, "turkey": RegionMiddleEast, "united arab emirates": RegionMiddleEast,
	"uae": RegionMiddleEast, "saudi arabia": RegionMiddleEast, "iran": RegionMiddleEast,
	"lebanon": RegionMiddleEast,
}

// RegionFor maps a country (or a region name) to its festival region; unknown yields "".
func RegionFor(countryOrRegion string) Region {
	key := strings.ToLower(strings.TrimSpace(countryOrRegion))
	if key == "" {
		return ""
	}
	if r, ok := countryRegions[key]; ok {
		return r
	}
	switch r := Region(key); r {
	case RegionEurope, RegionNorthAmerica, RegionSouthAmerica, RegionAsia,
		RegionAfrica, RegionOceania, RegionMiddleEast:
		return r
	}
	return ""
}
