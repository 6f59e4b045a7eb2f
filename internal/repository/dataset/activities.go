package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/listquery/internal/domain/activity"
)

// ActivitySeed is the fixture file holding timeline activities.
const ActivitySeed = "timeline" + SeedExt

type activityRow struct {
	Customer string         `yaml:"customer"`
	At       time.Time      `yaml:"at"`
	Kind     activity.Kind  `yaml:"kind"`
	Data     map[string]any `yaml:"data"`
}

// ReadActivities decodes the timeline fixture in the loader's seed directory.
// A missing file yields no records.
func (l *Loader) ReadActivities() ([]activity.Record, error) {
	path := l.SeedPath("timeline")
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeActivities(raw)
}

// DecodeActivities parses a YAML list of {customer, at, kind, data} rows.
func DecodeActivities(raw []byte) ([]activity.Record, error) {
	var rows []activityRow
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	out := make([]activity.Record, 0, len(rows))
	for i, row := range rows {
		data, err := json.Marshal(row.Data)
		if err != nil {
			return nil, fmt.Errorf("activity %d: %w", i, err)
		}
		a, err := activity.Decode(row.Kind, data)
		if err != nil {
			return nil, fmt.Errorf("activity %d: %w", i, err)
		}
		out = append(out, activity.Record{CustomerID: row.Customer, At: row.At, Activity: a})
	}
	return out, nil
}
