package categorizer

import (
	"encoding/json"
	"fmt"

	"github.com/farmchain/soiladvisor/internal/domain/agronomy"
	"github.com/farmchain/soiladvisor/internal/intelligence/extractor"
)

// classificationPrompt asks the model to infer categories for missing
// parameters from regional heuristics. Measured parameters are already
// locked; the pre-categorized pH is included for context only.
func classificationPrompt(readings extractor.Readings, locked Profile, district, soilType, irrigation string) (string, error) {
	extractedJSON, err := json.Marshal(readings)
	if err != nil {
		return "", err
	}

	preCategorizedPH := "null"
	if entry, ok := locked[agronomy.ParamPH]; ok {
		b, err := json.Marshal(entry)
		if err != nil {
			return "", err
		}
		preCategorizedPH = string(b)
	}

	if soilType == "" {
		soilType = "Unknown"
	}

	return fmt.Sprintf(`You are a soil classification assistant for Maharashtra, India agriculture system.

YOUR ROLE: Infer categories for MISSING parameters only.
BACKEND HANDLES: All threshold-based categorization for measured values.

Input Data:
- Extracted Parameters: %s
- District: %s
- Soil Type: %s
- Irrigation Type: %s
- Pre-categorized pH: %s

CRITICAL CONSTRAINTS (MANDATORY - NEVER VIOLATE):

1. pH CATEGORIZATION - COMPLETELY LOCKED:
   - pH is ALREADY categorized in backend code
   - Use the pre-categorized pH category EXACTLY as provided above
   - NEVER classify, infer, or modify pH category

2. MEASURED VALUES (source="report" AND value is NOT null):
   - Backend code ALREADY categorized these using thresholds
   - DO NOT categorize them; the backend will override your output

3. MISSING VALUES (value is null OR source="missing"):
   - ONLY for missing values, infer category using soil type
     characteristics, district patterns, and typical regional soil
     properties
   - Set confidence between 0.5 and 0.8 (lower for inferred)
   - NEVER generate numeric values
   - NEVER predict what the measured value might be

4. INFERENCE RULES (for missing values only):
   - Maharashtra Black Soil: typically Low Nitrogen, Medium Phosphorus, High Potassium
   - Red Soil: typically Low Nitrogen, Low Phosphorus, Low Potassium
   - Alluvial: typically Medium Nitrogen, Medium Phosphorus, Medium Potassium
   - Adjust confidence for irrigation: Irrigated 0.6-0.7, Rain-fed 0.5-0.6

5. CATEGORIES (no numeric values allowed):
   - pH: Acidic, Neutral, Alkaline (LOCKED - use pre-categorized)
   - Nitrogen, Phosphorus, Potassium: Low, Medium, High
   - Organic Carbon: Poor, Moderate, Rich

FORBIDDEN: generating or mentioning ANY numeric soil values, overriding
measured value categories, modifying pre-categorized pH.

OUTPUT FORMAT (JSON only, no text):
{
  "version": "farmchain-ai-v1.0",
  "soil_profile": {
    "pH": {"category": "Neutral", "confidence": 0.95},
    "Nitrogen": {"category": "Low", "confidence": 0.65},
    "Phosphorus": {"category": "Medium", "confidence": 0.6},
    "Potassium": {"category": "High", "confidence": 0.7}
  }
}

CRITICAL: Return ONLY raw JSON. NO explanations. NO markdown.`,
		extractedJSON, district, soilType, irrigation, preCategorizedPH), nil
}
