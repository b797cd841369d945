package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// MaxProductPhotos is the number of product photo slots a shop has.
const MaxProductPhotos = 6

// PlaceholderPhoto fills product photo slots that have no usable source URL.
const PlaceholderPhoto = "https://placehold.co/200x200/1d761e/fefff5?text=Product"

// ErrInvalidPhotoList is returned when a product photo list cannot be decoded.
var ErrInvalidPhotoList = errors.New("product_photos must be an array of strings or a JSON-encoded array")

// PhotoList is an ordered list of product photo URLs, stored as a JSON column.
// On decode it accepts either a JSON array or a string holding a JSON array.
type PhotoList []string

// UnmarshalJSON decodes an array of strings, or a string that encodes one.
// Blank entries are dropped; more than MaxProductPhotos entries is an error.
func (p *PhotoList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*p = nil
		return nil
	}

	var list []string
	if strings.HasPrefix(trimmed, `"`) {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return ErrInvalidPhotoList
		}
		encoded = strings.TrimSpace(encoded)
		if encoded == "" {
			*p = PhotoList{}
			return nil
		}
		if err := json.Unmarshal([]byte(encoded), &list); err != nil {
			return ErrInvalidPhotoList
		}
	} else if err := json.Unmarshal(data, &list); err != nil {
		return ErrInvalidPhotoList
	}

	cleaned := make(PhotoList, 0, len(list))
	for _, u := range list {
		if u = strings.TrimSpace(u); u != "" {
			cleaned = append(cleaned, u)
		}
	}
	if len(cleaned) > MaxProductPhotos {
		return fmt.Errorf("%w: at most %d entries allowed", ErrInvalidPhotoList, MaxProductPhotos)
	}
	*p = cleaned
	return nil
}

// MarshalJSON always emits an array, never null.
func (p PhotoList) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(p))
}

// Value implements driver.Valuer.
func (p PhotoList) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (p *PhotoList) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported product_photos column type %T", value)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		*p = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("failed to scan product_photos: %w", err)
	}
	*p = list
	return nil
}

// GormDataType implements schema.GormDataTypeInterface.
func (PhotoList) GormDataType() string {
	return "json"
}

// GormDBDataType implements migrator.GormDBDataTypeInterface.
func (PhotoList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "TEXT"
}
