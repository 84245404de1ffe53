package errors

import "net/http"

// ErrorCode identifies a failure category. Codes are stable strings so they
// can be matched in logs, metrics labels, and API responses.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every layer.
const (
	CodeUnknown            ErrorCode = "COMMON_000"
	CodeInternal           ErrorCode = "COMMON_001"
	CodeInvalidParam       ErrorCode = "COMMON_002"
	CodeNotFound           ErrorCode = "COMMON_003"
	CodeTimeout            ErrorCode = "COMMON_004"
	CodeValidation         ErrorCode = "COMMON_005"
	CodeSerialization      ErrorCode = "COMMON_006"
	CodeServiceUnavailable ErrorCode = "COMMON_007"

	CodeOK ErrorCode = "OK"
)

// Soil categorization codes.
const (
	// CodeUnknownParameter is returned by the threshold table for a parameter
	// name outside the fixed enumeration.
	CodeUnknownParameter ErrorCode = "SOIL_001"

	// CodeValueOutOfRange is returned by the threshold table when a value
	// falls outside every defined band for its parameter.
	CodeValueOutOfRange ErrorCode = "SOIL_002"

	// CodeCategorizationInvariant marks the hard safety invariant: a measured
	// parameter whose final category does not equal its threshold-table
	// category. This must never occur in a correct build.
	CodeCategorizationInvariant ErrorCode = "SOIL_003"
)

// Extraction codes.
const (
	// CodeExtractionUnverified marks an AI-extracted value that does not
	// literally reoccur in the source text and was therefore rejected.
	CodeExtractionUnverified ErrorCode = "EXT_001"

	// CodeExtractionBadSource marks an AI-extracted reading whose source tag
	// is neither "report" nor "missing".
	CodeExtractionBadSource ErrorCode = "EXT_002"
)

// Recommendation codes.
const (
	// CodeSeasonMismatch means the recommended crop set still failed season
	// validation after the bounded retries were exhausted.
	CodeSeasonMismatch ErrorCode = "REC_001"

	// CodeFertilityFilterBreach is the fail-fast invariant: a high-input crop
	// survived the fertility filter for low-fertility soil.
	CodeFertilityFilterBreach ErrorCode = "REC_002"

	// CodeNumericLeak means AI output echoed numeric soil values where only
	// categories are permitted.
	CodeNumericLeak ErrorCode = "REC_003"

	// CodeMissingProfile means recommendation was requested without a soil
	// profile to ground it.
	CodeMissingProfile ErrorCode = "REC_004"
)

// Explanation codes.
const (
	// CodeSummaryContradiction means the assembled summary contains a category
	// word contradicting the profile, which signals the wrong data source.
	CodeSummaryContradiction ErrorCode = "EXPL_001"
)

// LLM service codes.
const (
	CodeLLMUnavailable   ErrorCode = "LLM_001"
	CodeLLMMalformedJSON ErrorCode = "LLM_002"
	CodeLLMTimeout       ErrorCode = "LLM_003"
)

// HTTPStatus maps an ErrorCode to the HTTP status used by the API layer.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidParam, CodeUnknownParameter, CodeValueOutOfRange, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout, CodeLLMTimeout:
		return http.StatusGatewayTimeout
	case CodeLLMUnavailable, CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
