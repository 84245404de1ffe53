package agronomy

import "strings"

// Advisory disclaimers. Recommendations are guideline-based suggestions, not
// prescriptions, and every response carries one of these verbatim.
const (
	DisclaimerEnglish = "This recommendation is based on soil reports, district conditions, and " +
		"standard agriculture guidelines. Please consult your local agriculture " +
		"officer for final decisions."

	DisclaimerMarathi = "हा सल्ला माती अहवाल, जिल्ह्याची परिस्थिती व मानक कृषी मार्गदर्शक तत्वांवर आधारित आहे. " +
		"अंतिम निर्णयासाठी स्थानिक कृषी अधिकाऱ्यांचा सल्ला घ्यावा."
)

// Disclaimer returns the disclaimer for a language code. Recognized values
// are "english"/"en" and "marathi"/"mr"; anything else falls back to English.
func Disclaimer(language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "marathi", "mr":
		return DisclaimerMarathi
	default:
		return DisclaimerEnglish
	}
}

// IsMarathi reports whether the language code selects Marathi output.
func IsMarathi(language string) bool {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "marathi", "mr":
		return true
	}
	return false
}
