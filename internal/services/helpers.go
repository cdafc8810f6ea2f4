package services

import (
	"encoding/json"
	"fmt"
)

// assign copies value into the pointer dest via JSON, matching the shape a
// cache read would have produced.
func assign(dest, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal lookup value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal lookup value: %w", err)
	}
	return nil
}
