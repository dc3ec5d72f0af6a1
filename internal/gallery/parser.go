package gallery

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DecodeExhibition reads one exhibition document. Both the bare document and
// the API envelope {"data": {"exhibition": ...}} are accepted.
func DecodeExhibition(r io.Reader) (Exhibition, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Exhibition{}, fmt.Errorf("gallery: read exhibition: %w", err)
	}

	var env struct {
		Data *struct {
			Exhibition *Exhibition `json:"exhibition"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil && env.Data.Exhibition != nil {
		return *env.Data.Exhibition, nil
	}

	var ex Exhibition
	if err := json.Unmarshal(raw, &ex); err != nil {
		return Exhibition{}, fmt.Errorf("gallery: parse exhibition: %w", err)
	}
	return ex, nil
}

// LoadExhibition reads an exhibition JSON file.
func LoadExhibition(path string) (Exhibition, error) {
	f, err := os.Open(path)
	if err != nil {
		return Exhibition{}, fmt.Errorf("gallery: open %s: %w", path, err)
	}
	defer f.Close()

	ex, err := DecodeExhibition(f)
	if err != nil {
		return Exhibition{}, fmt.Errorf("%w (%s)", err, path)
	}
	return ex, nil
}
