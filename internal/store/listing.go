package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MichaelDViau/Kunaay-Demo/internal/models"
	"github.com/MichaelDViau/Kunaay-Demo/internal/upload"
	"github.com/MichaelDViau/Kunaay-Demo/internal/util"

	"gorm.io/gorm"
)

// MaxListLimit caps the limit accepted by List.
const MaxListLimit = 100

// FileRemover deletes the file behind a stored image path.
// upload.ErrNotManaged marks paths it does not own (seeded assets); those are skipped quietly.
type FileRemover interface {
	Remove(relPath string) error
}

// ListingStore owns listings and their ordered images.
//
// Create and Delete each run as one transaction, and both are serialized
// behind mu so that probing for a free slug and inserting it cannot race
// with another writer in this process. The unique index on slug backs this
// up at the database level.
type ListingStore struct {
	db    *gorm.DB
	files FileRemover
	mu    sync.Mutex
	nowF  func() time.Time
}

// NewListingStore returns a store. files may be nil, in which case image
// files are left on disk when a listing is deleted.
func NewListingStore(db *gorm.DB, files FileRemover) *ListingStore {
	return &ListingStore{
		db:    db,
		files: files,
		nowF:  func() time.Time { return time.Now().UTC() },
	}
}

// ListQuery filters List. An unknown Category is ignored, Limit <= 0 means no limit.
type ListQuery struct {
	Category string
	Limit    int
}

// ParseLimit reads a limit query value. Positive integers are capped at
// MaxListLimit; anything else yields 0 (no limit).
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	if n > MaxListLimit {
		return MaxListLimit
	}
	return n
}

// NewListing is the input of Create. Images are stored paths in display order.
type NewListing struct {
	Title       string
	Category    string
	Summary     string
	Description string
	Images      []string
}

// Normalize trims the text fields and lowercases the category.
func (n NewListing) Normalize() NewListing {
	n.Title = strings.TrimSpace(n.Title)
	n.Category = strings.ToLower(strings.TrimSpace(n.Category))
	n.Summary = strings.TrimSpace(n.Summary)
	n.Description = strings.TrimSpace(n.Description)
	return n
}

// Validate checks a normalized listing. Errors are *util.ValidationError.
func (n NewListing) Validate() error {
	if err := util.ValidateCategory(n.Category); err != nil {
		return err
	}
	return util.ValidateRequired("Title, summary, and description are required",
		n.Title, n.Summary, n.Description)
}

func withOrderedImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// List returns listings newest first, each with its images in position order.
func (s *ListingStore) List(ctx context.Context, q ListQuery) ([]models.Listing, error) {
	tx := withOrderedImages(s.db.WithContext(ctx)).Order("created_at DESC, id DESC")
	if util.IsCategory(q.Category) {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	listings := []models.Listing{}
	if err := tx.Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

// GetBySlug returns the listing with exactly this slug, or util.ErrNotFound.
func (s *ListingStore) GetBySlug(ctx context.Context, slug string) (*models.Listing, error) {
	return s.first(ctx, "slug = ?", slug)
}

// GetByID returns the listing with this id, or util.ErrNotFound.
func (s *ListingStore) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *ListingStore) first(ctx context.Context, query string, arg interface{}) (*models.Listing, error) {
	var listing models.Listing
	err := withOrderedImages(s.db.WithContext(ctx)).Where(query, arg).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return &listing, nil
}

// Count returns the number of listings.
func (s *ListingStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Listing{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

// Create validates in, picks a free slug derived from the title and inserts
// the listing with one image row per path. Either everything is written or
// nothing is.
func (s *ListingStore) Create(ctx context.Context, in NewListing) (string, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return "", err
	}
	base := util.Slugify(in.Title)

	s.mu.Lock()
	defer s.mu.Unlock()

	var slug string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		slug, err = freeSlug(tx, base)
		if err != nil {
			return err
		}

		now := s.nowF()
		listing := models.Listing{
			Title:       in.Title,
			Slug:        slug,
			Category:    in.Category,
			Summary:     in.Summary,
			Description: in.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&listing).Error; err != nil {
			return fmt.Errorf("insert listing: %w", err)
		}

		if len(in.Images) == 0 {
			return nil
		}
		images := make([]models.ListingImage, len(in.Images))
		for i, path := range in.Images {
			images[i] = models.ListingImage{
				ListingID: listing.ID,
				Filename:  path,
				Position:  i,
			}
		}
		if err := tx.Create(&images).Error; err != nil {
			return fmt.Errorf("insert images: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("create listing: %w", err)
	}
	return slug, nil
}

// freeSlug probes base, base-1, base-2, ... and returns the first unused one.
func freeSlug(tx *gorm.DB, base string) (string, error) {
	for n := 0; ; n++ {
		candidate := util.NextSlug(base, n)
		var count int64
		if err := tx.Model(&models.Listing{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", fmt.Errorf("probe slug: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
	}
}

// Delete removes the listing and its images in one transaction, then
// deletes the image files. File errors are logged, never returned: the
// database is the source of truth and an orphaned file is acceptable.
func (s *ListingStore) Delete(ctx context.Context, id uint) error {
	var images []models.ListingImage

	s.mu.Lock()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.Select("id").Where("id = ?", id).First(&listing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrNotFound
			}
			return err
		}
		if err := tx.Where("listing_id = ?", id).Find(&images).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", id).Delete(&models.ListingImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Listing{}, id).Error
	})
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("delete listing %d: %w", id, err)
	}

	s.removeFiles(images)
	return nil
}

func (s *ListingStore) removeFiles(images []models.ListingImage) {
	if s.files == nil {
		return
	}
	for _, img := range images {
		err := s.files.Remove(img.Filename)
		if err != nil && !errors.Is(err, upload.ErrNotManaged) {
			log.Printf("remove image %s: %v", img.Filename, err)
		}
	}
}
