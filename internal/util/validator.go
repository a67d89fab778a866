package util

import "strings"

// Listing categories.
const (
	CategoryRental = "rental"
	CategorySale   = "sale"
)

// IsCategory reports whether v is one of the known listing categories.
func IsCategory(v string) bool {
	return v == CategoryRental || v == CategorySale
}

// ValidateCategory 校验分类（只允许 rental / sale）
func ValidateCategory(category string) error {
	if !IsCategory(category) {
		return Invalid("Category must be rental or sale")
	}
	return nil
}

// ValidateRequired fails when any of the given values is blank.
func ValidateRequired(msg string, values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return Invalid(msg)
		}
	}
	return nil
}
