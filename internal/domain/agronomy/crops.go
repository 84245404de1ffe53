package agronomy

import "strings"

// Season is one of the three Maharashtra growing seasons.
type Season string

const (
	SeasonKharif Season = "Kharif"
	SeasonRabi   Season = "Rabi"
	SeasonSummer Season = "Summer"
)

// Seasons lists the recognized seasons.
var Seasons = []Season{SeasonKharif, SeasonRabi, SeasonSummer}

// Canonical crop lists per season (Maharashtra).
var (
	KharifCrops = []string{
		"Soybean", "Tur", "Cotton", "Maize", "Rice",
		"Bajra", "Jowar", "Groundnut", "Sugarcane",
	}
	RabiCrops = []string{
		"Wheat", "Gram", "Onion", "Tomato", "Potato",
		"Mustard", "Sunflower", "Garlic", "Fenugreek", "Coriander",
	}
	SummerCrops = []string{
		"Watermelon", "Muskmelon", "Cucumber", "Bitter Gourd", "Okra",
	}
)

var seasonCrops = map[Season][]string{
	SeasonKharif: KharifCrops,
	SeasonRabi:   RabiCrops,
	SeasonSummer: SummerCrops,
}

// HighInputCrops require above-minimum soil fertility and are filtered out
// when Nitrogen is Low or Organic Carbon is Poor.
var HighInputCrops = []string{"Onion", "Sugarcane", "Tomato", "Potato"}

// ParseSeason resolves a season name case-insensitively.
func ParseSeason(name string) (Season, bool) {
	for _, s := range Seasons {
		if strings.EqualFold(name, string(s)) {
			return s, true
		}
	}
	return "", false
}

// CropsForSeason returns the canonical crop list for a season, or false for
// an unrecognized season.
func CropsForSeason(season Season) ([]string, bool) {
	crops, ok := seasonCrops[season]
	return crops, ok
}

// IsCropInSeason reports whether a crop belongs to the season's canonical
// list. Comparison is case-insensitive; unknown seasons match nothing.
func IsCropInSeason(crop string, season Season) bool {
	crops, ok := seasonCrops[season]
	if !ok {
		return false
	}
	for _, c := range crops {
		if strings.EqualFold(crop, c) {
			return true
		}
	}
	return false
}

// ValidateCropsForSeason reports whether every crop belongs to the season.
// An empty crop list fails validation: a recommendation with no crops is
// not a usable recommendation.
func ValidateCropsForSeason(crops []string, season Season) bool {
	if len(crops) == 0 {
		return false
	}
	for _, crop := range crops {
		if !IsCropInSeason(crop, season) {
			return false
		}
	}
	return true
}

// IsHighInputCrop reports whether the crop is on the high-input list.
func IsHighInputCrop(crop string) bool {
	for _, c := range HighInputCrops {
		if strings.EqualFold(crop, c) {
			return true
		}
	}
	return false
}

// ShouldFilterCrop reports whether a crop must be removed from a
// recommendation given the soil's Nitrogen and Organic Carbon categories.
// Only high-input crops are ever filtered; they are dropped when Nitrogen is
// Low or Organic Carbon is Poor.
func ShouldFilterCrop(crop string, nitrogen, organicCarbon Category) bool {
	if !IsHighInputCrop(crop) {
		return false
	}
	return nitrogen == CategoryLow || organicCarbon == CategoryPoor
}

// KnownCrops is the union of all season lists, used by the explainer to
// detect crops mentioned outside the recommended set.
func KnownCrops() []string {
	out := make([]string, 0, len(KharifCrops)+len(RabiCrops)+len(SummerCrops))
	out = append(out, KharifCrops...)
	out = append(out, RabiCrops...)
	out = append(out, SummerCrops...)
	return out
}
