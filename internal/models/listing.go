package models

import "time"

// Listing is a property for rent or sale.
type Listing struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:255;not null"`
	Slug        string    `gorm:"size:255;uniqueIndex;not null"`
	Category    string    `gorm:"size:16;index;not null"` // rental / sale
	Summary     string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"index;not null"`
	UpdatedAt   time.Time `gorm:"not null"`

	Images []ListingImage `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
}

// ListingImage is one picture of a listing. Position is 0-based upload order.
type ListingImage struct {
	ID        uint   `gorm:"primaryKey"`
	ListingID uint   `gorm:"index;not null"`
	Filename  string `gorm:"type:text;not null"` // relative storage path
	Position  int    `gorm:"not null"`
}

// ImagePaths returns the image filenames in position order.
// Images must already be loaded sorted by position.
func (l *Listing) ImagePaths() []string {
	paths := make([]string, 0, len(l.Images))
	for _, img := range l.Images {
		paths = append(paths, img.Filename)
	}
	return paths
}
