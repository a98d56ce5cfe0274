package boukii

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Settings is the school's timeline configuration. Older backends store
// it as a JSON string column, newer ones as an object; both shapes decode
// to the same struct here at the ingestion boundary so nothing downstream
// branches on shape.
type Settings struct {
	TimelineHourStart string `json:"timeline_hour_start"`
	TimelineHourEnd   string `json:"timeline_hour_end"`
}

func (s *Settings) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if asString == "" {
			return nil
		}
		data = []byte(asString)
	}
	type plain Settings
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Settings(p)
	return nil
}

// FetchSchoolSettings loads the school record and returns its settings
// blob.
func (c *Client) FetchSchoolSettings(ctx context.Context, schoolID int64) (Settings, error) {
	var school struct {
		ID       int64    `json:"id"`
		Settings Settings `json:"settings"`
	}
	path := fmt.Sprintf("/admin/schools/%d", schoolID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &school); err != nil {
		return Settings{}, err
	}
	return school.Settings, nil
}
