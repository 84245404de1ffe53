package extractor

import (
	"regexp"
	"strconv"

	"github.com/farmchain/soiladvisor/internal/domain/agronomy"
)

// pattern is one phrasing of a parameter in a lab report. Group 1 captures
// the numeric value; unitGroup, when non-zero, captures an explicit unit.
type pattern struct {
	re        *regexp.Regexp
	unitGroup int
}

// paramPatterns is the ordered battery per parameter. Earlier entries are
// more specific lab-report phrasings; later ones are looser and rely on the
// plausibility bounds to reject misreads. Bare one-letter labels ("N: 120")
// only count when followed by an explicit unit.
var paramPatterns = map[agronomy.Parameter][]pattern{
	agronomy.ParamPH: {
		{re: regexp.MustCompile(`(?i)\bsoil\s+reaction\s*[:=\-]?\s*(\d{1,2}(?:\.\d+)?)`)},
		{re: regexp.MustCompile(`(?i)\bph\b\s*(?:value|level)?\s*[:=\-]?\s*(\d{1,2}(?:\.\d+)?)`)},
	},
	agronomy.ParamNitrogen: {
		{re: regexp.MustCompile(`(?i)\b(?:available\s+)?nitrogen(?:\s+content)?\s*(?:\(\s*n\s*\))?\s*[:=\-]?\s*(\d+(?:\.\d+)?)\s*(kg/ha|kg/acre)?`), unitGroup: 2},
		{re: regexp.MustCompile(`(?i)\bn\s*[:=]\s*(\d+(?:\.\d+)?)\s*(kg/ha|kg/acre)`), unitGroup: 2},
	},
	agronomy.ParamPhosphorus: {
		{re: regexp.MustCompile(`(?i)\b(?:available\s+)?phosphorus(?:\s+content)?\s*(?:\(\s*p\s*\))?\s*[:=\-]?\s*(\d+(?:\.\d+)?)\s*(kg/ha|kg/acre)?`), unitGroup: 2},
		{re: regexp.MustCompile(`(?i)\bp\s*[:=]\s*(\d+(?:\.\d+)?)\s*(kg/ha|kg/acre)`), unitGroup: 2},
	},
	agronomy.ParamPotassium: {
		{re: regexp.MustCompile(`(?i)\b(?:available\s+)?potassium(?:\s+content)?\s*(?:\(\s*k\s*\))?\s*[:=\-]?\s*(\d+(?:\.\d+)?)\s*(kg/ha|kg/acre)?`), unitGroup: 2},
		{re: regexp.MustCompile(`(?i)\bk\s*[:=]\s*(\d+(?:\.\d+)?)\s*(kg/ha|kg/acre)`), unitGroup: 2},
	},
	agronomy.ParamOrganicCarbon: {
		{re: regexp.MustCompile(`(?i)\borganic\s+carbon\s*(?:\(\s*oc\s*\))?\s*[:=\-]?\s*(\d+(?:\.\d+)?)\s*(%)?`), unitGroup: 2},
		{re: regexp.MustCompile(`(?i)\boc\s*[:=]\s*(\d+(?:\.\d+)?)\s*(%)?`), unitGroup: 2},
	},
}

// matchParameter runs the battery against normalized text. The first match
// inside the parameter's plausibility bounds wins; implausible matches are
// skipped so a pH digit misread as Nitrogen does not poison the reading.
func matchParameter(p agronomy.Parameter, normalized string) (Reading, bool) {
	for _, pat := range paramPatterns[p] {
		for _, m := range pat.re.FindAllStringSubmatch(normalized, -1) {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil || !agronomy.Plausible(p, value) {
				continue
			}

			unit := ""
			if pat.unitGroup > 0 && pat.unitGroup < len(m) {
				unit = m[pat.unitGroup]
			}
			unitUncertain := false
			if unit == "" && p.Unit() != "" {
				unit = p.Unit()
				unitUncertain = true
			}
			return Reading{
				Value:         &value,
				Unit:          unit,
				Source:        SourceReport,
				UnitUncertain: unitUncertain,
			}, true
		}
	}
	return Reading{}, false
}
