package reconcile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mainstreet/internal/models"
	"mainstreet/pkg/logger"
)

// snapshotRecord is one entry of the JSON snapshot. Text fields may be null,
// strings or numbers; productPhotos may be an array or a string holding one.
type snapshotRecord struct {
	ID            json.RawMessage `json:"id"`
	Name          json.RawMessage `json:"name"`
	Address       json.RawMessage `json:"address"`
	City          json.RawMessage `json:"city"`
	Category      json.RawMessage `json:"category"`
	Description   json.RawMessage `json:"description"`
	Link          json.RawMessage `json:"link"`
	ShopImage     json.RawMessage `json:"shopImage"`
	Logo          json.RawMessage `json:"logo"`
	ProductPhotos json.RawMessage `json:"productPhotos"`
	ProductCount  json.RawMessage `json:"productCount"`
}

// LoadSnapshot reads the JSON snapshot file.
func LoadSnapshot(path string) ([]models.Shop, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	shops, err := ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return shops, nil
}

// ParseSnapshot decodes a snapshot into canonical shops. Unparseable photo
// lists count as no photos; entries that are not objects or have no id are
// dropped.
func ParseSnapshot(data []byte) ([]models.Shop, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	shops := make([]models.Shop, 0, len(entries))
	for i, entry := range entries {
		var rec snapshotRecord
		if err := json.Unmarshal(entry, &rec); err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("Skipping malformed snapshot entry")
			continue
		}
		id := scalar(rec.ID)
		if id == "" {
			continue
		}
		address := scalar(rec.Address)
		city := scalar(rec.City)
		if city == "" {
			city = cityFromAddress(address)
		}
		shops = append(shops, models.Shop{
			ID:            id,
			Name:          scalar(rec.Name),
			Address:       address,
			City:          city,
			Category:      scalar(rec.Category),
			Description:   scalar(rec.Description),
			Link:          scalar(rec.Link),
			ShopImage:     scalar(rec.ShopImage),
			Logo:          scalar(rec.Logo),
			ProductPhotos: normalizePhotos(lenientPhotos(rec.ProductPhotos)),
			ProductCount:  scalar(rec.ProductCount),
		})
	}
	return dedupe(shops), nil
}

// WriteSnapshot writes shops as an indented JSON array.
func WriteSnapshot(path string, shops []models.Shop) error {
	if shops == nil {
		shops = []models.Shop{}
	}
	data, err := json.MarshalIndent(shops, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func lenientPhotos(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(encoded), &list); err != nil {
		return nil
	}
	return list
}

// scalar reads a string or number field as text. Anything else reads as empty.
func scalar(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
