package store

import (
	"context"
	"fmt"
)

// SampleListings are inserted into an empty database at first start.
var SampleListings = []NewListing{
	{
		Title:       "Casa Ricardo",
		Category:    "sale",
		Summary:     "A coastal retreat with private beach access and luxurious finishes.",
		Description: "Enjoy breathtaking ocean views from every room in Casa Ricardo. This spacious property features open-concept living areas, a chef's kitchen, and expansive outdoor spaces for entertaining.",
		Images:      []string{"assets/img/photos/homereview01.jpg"},
	},
	{
		Title:       "Casa Chukum",
		Category:    "rental",
		Summary:     "Modern villa surrounded by lush greenery, perfect for tranquil escapes.",
		Description: "Casa Chukum blends contemporary design with natural materials. Relax by the private pool or unwind in the rooftop lounge while soaking in jungle views.",
		Images:      []string{"assets/img/photos/homereview02.jpg"},
	},
}

// SeedListings creates the given listings when the store is empty and
// returns how many were inserted.
func SeedListings(ctx context.Context, s *ListingStore, seed []NewListing) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for i, item := range seed {
		if _, err := s.Create(ctx, item); err != nil {
			return i, fmt.Errorf("seed %q: %w", item.Title, err)
		}
	}
	return len(seed), nil
}
