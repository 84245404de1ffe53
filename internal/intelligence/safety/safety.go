// Package safety holds the numeric-leak guards applied to every AI response.
// The AI layer is only ever allowed to speak in categories; a numeric soil
// value in its output means generated data and the response is rejected.
package safety

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/farmchain/soiladvisor/pkg/errors"
)

// forbiddenTextPatterns match numeric soil values in free text. Matching runs
// against the lowercased response.
var forbiddenTextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ph[\s:=]+\d+\.\d+`),
	regexp.MustCompile(`nitrogen[\s:=]+\d+`),
	regexp.MustCompile(`phosphorus[\s:=]+\d+`),
	regexp.MustCompile(`potassium[\s:=]+\d+`),
	regexp.MustCompile(`\d+\s*kg/ha`),
	regexp.MustCompile(`\d+\s*kg/acre`),
	regexp.MustCompile(`value["']?\s*:\s*\d+\.\d+`),
	regexp.MustCompile(`ph\s+is\s+\d+\.\d+`),
	regexp.MustCompile(`nitrogen\s+is\s+\d+`),
}

// CheckText scans an AI response for numeric soil values. context names the
// call site for the error message.
func CheckText(responseText, context string) error {
	lower := strings.ToLower(responseText)
	for _, pattern := range forbiddenTextPatterns {
		if match := pattern.FindString(lower); match != "" {
			return errors.Newf(errors.CodeNumericLeak,
				"numeric soil value in %s output: %q", context, match).
				WithDetail(truncate(responseText, 200))
		}
	}
	return nil
}

// defaultAllowedFields are JSON paths where numbers are legitimate.
var defaultAllowedFields = []string{"confidence", "version"}

// CheckJSON walks a parsed AI response and rejects numeric values in soil
// parameter fields. allowedFields are path substrings where numbers may
// appear; nil means the default set (confidence, version).
func CheckJSON(data map[string]interface{}, context string, allowedFields []string) error {
	if allowedFields == nil {
		allowedFields = defaultAllowedFields
	}
	return checkObject(data, "", context, allowedFields)
}

var numericSoilKeys = map[string]bool{
	"value":      true,
	"ph":         true,
	"nitrogen":   true,
	"phosphorus": true,
	"potassium":  true,
}

func checkObject(obj map[string]interface{}, path, context string, allowed []string) error {
	for key, value := range obj {
		current := key
		if path != "" {
			current = path + "." + key
		}
		if pathAllowed(current, allowed) {
			continue
		}

		switch v := value.(type) {
		case map[string]interface{}:
			if err := checkObject(v, current, context, allowed); err != nil {
				return err
			}
		case []interface{}:
			for _, item := range v {
				if nested, ok := item.(map[string]interface{}); ok {
					if err := checkObject(nested, current, context, allowed); err != nil {
						return err
					}
				}
			}
		case float64:
			if !numericSoilKeys[strings.ToLower(key)] {
				continue
			}
			// "value" is legitimate inside extraction output, which carries
			// measured readings by definition.
			if strings.ToLower(key) == "value" &&
				(strings.Contains(current, "extracted_parameters") || strings.Contains(current, "pre_categorized")) {
				continue
			}
			return errors.Newf(errors.CodeNumericLeak,
				"numeric value in %s output at %s = %v", context, current, v)
		}
	}
	return nil
}

func pathAllowed(path string, allowed []string) bool {
	for _, a := range allowed {
		if strings.Contains(path, a) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s...", s[:n])
}
