package extractor

import "fmt"

// extractionPrompt instructs the model to extract, never generate. The
// output contract mirrors the Reading shape; acceptance is still enforced in
// code regardless of how well the model obeys.
func extractionPrompt(normalized string) string {
	return fmt.Sprintf(`You are a soil report text extractor for Maharashtra, India agriculture system.

CRITICAL CONSTRAINTS (MANDATORY - NEVER VIOLATE):

1. EXTRACTION ONLY - NO GENERATION:
   - Extract ONLY numeric values that are EXPLICITLY written in the report text
   - NEVER generate, predict, estimate, or infer any numeric values
   - NEVER use typical values, averages, or ranges
   - NEVER calculate or derive values from other parameters

2. MISSING PARAMETER HANDLING:
   - If a parameter (pH, Nitrogen, Phosphorus, Potassium, Organic Carbon) is NOT found in the text:
     set value: null and source: "missing"
   - If a parameter name appears but NO numeric value is given:
     set value: null and source: "missing"

3. PARAMETER NORMALIZATION:
   - "Soil Reaction" means pH
   - "Available Nitrogen (N)" or "N" means Nitrogen
   - "Available Phosphorus (P)" or "P" means Phosphorus
   - "Available Potassium (K)" or "K" means Potassium
   - "Organic Carbon (OC)" or "OC" means Organic Carbon

4. UNITS:
   - pH: no unit (dimensionless)
   - Nitrogen, Phosphorus, Potassium: kg/ha (if not specified, set unit_uncertain: true)
   - Organic Carbon: %%

5. OUTPUT REQUIREMENTS:
   - Return ONLY valid JSON, no explanations, no markdown
   - Every parameter present must have: value, unit, source, unit_uncertain

FORBIDDEN: generating typical values, inferring from district or soil type,
using ranges or approximations, filling gaps with assumptions.

Report Text:
%s

Output format example:
{
  "version": "farmchain-ai-v1.0",
  "extracted_parameters": {
    "pH": {"value": 6.9, "unit": "", "source": "report", "unit_uncertain": false},
    "Nitrogen": {"value": 120, "unit": "kg/ha", "source": "report", "unit_uncertain": false},
    "Phosphorus": {"value": null, "unit": "", "source": "missing", "unit_uncertain": false}
  }
}

Now extract parameters from the report text above. Return ONLY the JSON structure.`, normalized)
}
