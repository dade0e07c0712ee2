package products

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// ImageList accepts either a single URL string or an array of URLs.
type ImageList []string

func (l *ImageList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var many []string
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*l = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("images must be a string or an array of strings: %w", err)
	}
	*l = ImageList{one}
	return nil
}

// normalized drops blanks and keeps order.
func (l ImageList) normalized() []string {
	out := make([]string, 0, len(l))
	for _, img := range l {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}

// ProductForm is the body of POST and PUT /products. ID is only read on update.
type ProductForm struct {
	ID         string           `json:"id"`
	Name       string           `json:"name" validate:"required,max=200"`
	Price      *decimal.Decimal `json:"price" validate:"required"`
	CostPrice  *decimal.Decimal `json:"costPrice"`
	Images     ImageList        `json:"images"`
	CategoryID string           `json:"categoryId"`
}

func (f *ProductForm) validate(requireID bool) error {
	f.ID = strings.TrimSpace(f.ID)
	f.Name = strings.TrimSpace(f.Name)
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	if err := shared.ValidateStruct(f); err != nil {
		return err
	}
	verr := &shared.ValidationError{Fields: map[string]string{}}
	if requireID && f.ID == "" {
		verr.Fields["id"] = "is required"
	}
	if f.Price.IsNegative() {
		verr.Fields["price"] = "must not be negative"
	}
	if f.CostPrice != nil && f.CostPrice.IsNegative() {
		verr.Fields["costPrice"] = "must not be negative"
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
