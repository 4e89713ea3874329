package output

import (
	"encoding/json"

	"github.com/depaudit/depaudit/pkg/model"
)

// GenerateJSON renders the scan result as indented JSON.
func GenerateJSON(result *model.ScanResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
