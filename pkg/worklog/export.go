package worklog

import (
	"encoding/json"

	"go.yaml.in/yaml/v3"

	"github.com/gbujak/flog/pkg/config"
	flogerrors "github.com/gbujak/flog/pkg/errors"
)

// Export encodes entries as pretty-printed JSON or YAML.
func Export(entries []Entry, format string) ([]byte, error) {
	if err := config.ValidateFormat(format); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.Record())
	}

	switch format {
	case "yaml":
		data, err := yaml.Marshal(records)
		if err != nil {
			return nil, flogerrors.NewLogErrorWithCause("export", "failed to encode YAML", err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, flogerrors.NewLogErrorWithCause("export", "failed to encode JSON", err)
		}
		return data, nil
	}
}
