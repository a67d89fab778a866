package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/MichaelDViau/Kunaay-Demo/internal/models"
	"github.com/MichaelDViau/Kunaay-Demo/internal/store"
	"github.com/MichaelDViau/Kunaay-Demo/internal/upload"
	"github.com/MichaelDViau/Kunaay-Demo/internal/util"

	"github.com/gin-gonic/gin"
)

// ListingHandler 负责房源的查询、创建与删除
type ListingHandler struct {
	Listings *store.ListingStore
	Uploads  *upload.Storage
	MaxBytes int64
}

func NewListingHandler(listings *store.ListingStore, uploads *upload.Storage, maxBytes int64) *ListingHandler {
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	return &ListingHandler{
		Listings: listings,
		Uploads:  uploads,
		MaxBytes: maxBytes,
	}
}

type listingResp struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Images      []string  `json:"images"`
}

func toListingResp(l *models.Listing) listingResp {
	return listingResp{
		ID:          l.ID,
		Title:       l.Title,
		Slug:        l.Slug,
		Category:    l.Category,
		Summary:     l.Summary,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
		Images:      l.ImagePaths(),
	}
}

// List serves both the public and the admin listing index.
func (h *ListingHandler) List(c *gin.Context) {
	listings, err := h.Listings.List(c.Request.Context(), store.ListQuery{
		Category: c.Query("type"),
		Limit:    store.ParseLimit(c.Query("limit")),
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	items := make([]listingResp, 0, len(listings))
	for i := range listings {
		items = append(items, toListingResp(&listings[i]))
	}
	c.JSON(http.StatusOK, items)
}

func (h *ListingHandler) Get(c *gin.Context) {
	listing, err := h.Listings.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResp(listing))
}

// ---------- 新增房源 ----------

// Create reads a multipart form, validates it, stores the images and then
// the listing. Nothing is written for invalid input.
func (h *ListingHandler) Create(c *gin.Context) {
	mediaType, params, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "multipart/form-data required")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Request body too large")
			return
		}
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Could not read request body")
		return
	}

	parts, err := upload.ParseMultipart(body, params["boundary"])
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Malformed multipart body")
		return
	}

	in := store.NewListing{
		Title:       upload.Value(parts, "title"),
		Category:    upload.Value(parts, "category"),
		Summary:     upload.Value(parts, "summary"),
		Description: upload.Value(parts, "description"),
	}.Normalize()
	if err := in.Validate(); err != nil {
		util.Fail(c, err)
		return
	}

	in.Images, err = h.Uploads.Save(parts)
	if err != nil {
		util.Fail(c, err)
		return
	}

	slug, err := h.Listings.Create(c.Request.Context(), in)
	if err != nil {
		for _, p := range in.Images {
			_ = h.Uploads.Remove(p)
		}
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "slug": slug})
}

// ---------- 删除房源 ----------

func (h *ListingHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid listing id")
		return
	}

	if err := h.Listings.Delete(c.Request.Context(), uint(id)); err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
