package analysis

import (
	"bytes"
	"encoding/json"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/common"
)

// Source formats recorded on extract jobs.
const (
	FormatAnalysis = "ANALYSIS"
	FormatAzure    = "AZURE"
)

// Decode reads either an AnalysisResult document or a raw Azure analyze response.
// The returned format tells which one it was.
func Decode(data []byte) (*AnalysisResult, string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, "", common.NewAppError("INVALID_ANALYSIS", "empty document", common.ErrInvalidInput)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, "", common.NewAppError("INVALID_ANALYSIS", "not a JSON object", common.ErrInvalidInput)
	}
	if isAzureShape(probe) {
		res, err := FromAzure(data)
		if err != nil {
			return nil, "", common.NewAppError("INVALID_ANALYSIS", err.Error(), common.ErrInvalidInput)
		}
		return res, FormatAzure, nil
	}

	if err := ValidateJSON(data); err != nil {
		return nil, "", common.NewAppError("INVALID_ANALYSIS", err.Error(), common.ErrValidation)
	}
	var res AnalysisResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, "", common.NewAppError("INVALID_ANALYSIS", err.Error(), common.ErrInvalidInput)
	}
	if dt, ok := constants.CanonicalizeDocumentType(string(res.DocumentType)); ok {
		res.DocumentType = dt
	} else {
		res.DocumentType = constants.DocumentUnknown
	}
	return &res, FormatAnalysis, nil
}

func isAzureShape(probe map[string]json.RawMessage) bool {
	if _, ok := probe["analyzeResult"]; ok {
		return true
	}
	_, hasDocs := probe["documents"]
	_, hasModel := probe["modelId"]
	_, hasFields := probe["fields"]
	return (hasDocs || hasModel) && !hasFields
}
