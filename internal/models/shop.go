package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Shop represents a listed business.
type Shop struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	Name             string    `json:"name"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	Link             string    `json:"link"`
	ShopImage        string    `json:"shopImage"`
	Logo             string    `json:"logo"`
	ProductPhotos    PhotoList `json:"productPhotos"`
	ProductCount     string    `json:"productCount"`
	EnterStoreClicks int       `json:"enterStoreClicks" gorm:"not null;default:0"`
}

// ShopInput is the admin write body. Keys follow the admin console's snake_case names.
type ShopInput struct {
	Name          string    `json:"name" validate:"max=200"`
	Address       string    `json:"address" validate:"max=500"`
	City          string    `json:"city" validate:"max=200"`
	Category      string    `json:"category" validate:"max=200"`
	Description   string    `json:"description" validate:"max=5000"`
	Link          string    `json:"link" validate:"max=2000"`
	ShopImage     string    `json:"shop_image" validate:"max=2000"`
	Logo          string    `json:"logo" validate:"max=2000"`
	ProductCount  string    `json:"product_count" validate:"max=100"`
	ProductPhotos PhotoList `json:"product_photos"`
}

// ToShop maps the input onto a new Shop with the given id.
func (in ShopInput) ToShop(id string) *Shop {
	photos := in.ProductPhotos
	if photos == nil {
		photos = PhotoList{}
	}
	return &Shop{
		ID:            id,
		Name:          in.Name,
		Address:       in.Address,
		City:          in.City,
		Category:      in.Category,
		Description:   in.Description,
		Link:          in.Link,
		ShopImage:     in.ShopImage,
		Logo:          in.Logo,
		ProductCount:  in.ProductCount,
		ProductPhotos: photos,
	}
}

// ErrInvalidShopField is returned when a patch body carries a value of the wrong type.
var ErrInvalidShopField = errors.New("invalid shop field")

// shopTextColumns maps admin body keys to shop table columns.
var shopTextColumns = map[string]string{
	"name":          "name",
	"address":       "address",
	"city":          "city",
	"category":      "category",
	"description":   "description",
	"link":          "link",
	"shop_image":    "shop_image",
	"logo":          "logo",
	"product_count": "product_count",
}

// ShopPatch is a partial update: only the columns present in the request body.
type ShopPatch map[string]any

// ParseShopPatch decodes a PATCH body. Unknown keys are ignored, as are the
// immutable id and the click counter. Text fields must be strings; null is
// rejected rather than blanking the column.
func ParseShopPatch(body []byte) (ShopPatch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidShopField)
	}

	patch := ShopPatch{}
	for key, value := range raw {
		if column, ok := shopTextColumns[key]; ok {
			var s string
			if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
				return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidShopField, key)
			}
			if err := json.Unmarshal(value, &s); err != nil {
				return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidShopField, key)
			}
			patch[column] = s
			continue
		}
		if key == "product_photos" {
			var photos PhotoList
			if err := json.Unmarshal(value, &photos); err != nil {
				return nil, err
			}
			if photos == nil {
				photos = PhotoList{}
			}
			patch["product_photos"] = photos
		}
	}
	return patch, nil
}
