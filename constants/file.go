package constants

import "strings"

// SourceFormats holds the allowed values for the source_format column of extract_job.
var SourceFormats = []string{"ANALYSIS", "AZURE"}

// AllowedExtensions holds the file extensions picked up when scanning a directory of analysis results.
var AllowedExtensions = map[string]struct{}{
	"json": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
