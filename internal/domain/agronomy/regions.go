package agronomy

import "strings"

// MaharashtraDistricts lists the districts the advisory is calibrated for.
// District names feed the AI inference heuristics for missing parameters;
// an unknown district is still accepted but weakens inference.
var MaharashtraDistricts = []string{
	"Thane", "Pune", "Nashik", "Aurangabad", "Nagpur", "Kolhapur",
	"Satara", "Solapur", "Sangli", "Ahmednagar", "Jalgaon", "Dhule",
	"Nanded", "Latur", "Osmanabad", "Beed", "Jalna", "Parbhani",
	"Hingoli", "Washim", "Buldhana", "Akola", "Amravati", "Yavatmal",
	"Wardha", "Chandrapur", "Gadchiroli", "Bhandara", "Gondia", "Raigad",
	"Ratnagiri", "Sindhudurg",
}

// SoilTypes lists the recognized soil type labels.
var SoilTypes = []string{
	"Loamy", "Clayey", "Sandy", "Alluvial", "Black", "Red", "Laterite",
}

// IrrigationTypes lists the recognized irrigation labels.
var IrrigationTypes = []string{"Rain-fed", "Irrigated"}

// IsKnownDistrict reports whether district is one of the calibrated
// Maharashtra districts (case-insensitive).
func IsKnownDistrict(district string) bool {
	for _, d := range MaharashtraDistricts {
		if strings.EqualFold(district, d) {
			return true
		}
	}
	return false
}

// IsKnownSoilType reports whether soilType is a recognized label.
func IsKnownSoilType(soilType string) bool {
	for _, s := range SoilTypes {
		if strings.EqualFold(soilType, s) {
			return true
		}
	}
	return false
}

// IsKnownIrrigation reports whether irrigation is a recognized label.
func IsKnownIrrigation(irrigation string) bool {
	for _, i := range IrrigationTypes {
		if strings.EqualFold(irrigation, i) {
			return true
		}
	}
	return false
}
