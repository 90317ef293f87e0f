package pipeline

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/joseph-ayodele/docextract/internal/analysis"
)

// Document is one analysis result waiting to be extracted. Either Data (an
// AnalysisResult document or a raw provider response) or an already decoded
// Result must be set; Result wins when both are.
type Document struct {
	ID     string
	Data   []byte
	Result *analysis.AnalysisResult
	// Format is the source format of Result when it was decoded elsewhere.
	Format string
}

// SHA256 returns the hex content hash of Data, or "" when there is none.
func (d Document) SHA256() string {
	if len(d.Data) == 0 {
		return ""
	}
	sum := sha256.Sum256(d.Data)
	return hex.EncodeToString(sum[:])
}
