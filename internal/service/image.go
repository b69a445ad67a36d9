package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/cookwithfriends/backend/internal/logging"
	"github.com/pageza/cookwithfriends/backend/internal/models"
)

// SupportedImageExtensions are probed in this order when loading an image.
var SupportedImageExtensions = []string{".png", ".jpg"}

// ImageService stores one image per recipe, named "{recipeId}_{title}{ext}".
type ImageService struct {
	db    *gorm.DB
	store ImageStore
}

var _ IImageService = (*ImageService)(nil)

// NewImageService creates a new ImageService instance
func NewImageService(db *gorm.DB, store ImageStore) *ImageService {
	return &ImageService{db: db, store: store}
}

// StoreImage copies r into the recipe's image, replacing any previous file with the same name.
func (s *ImageService) StoreImage(ctx context.Context, recipeID uint, originalName string, r io.Reader) error {
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return err
	}

	name := ImageBaseName(recipe) + ImageExtension(originalName)
	if err := s.store.Put(ctx, name, r); err != nil {
		logging.FromContext(ctx).WithError(err).WithField("image", name).Error("Failed to store image")
		return withMessage(ErrImageStore, "Could not store image for recipe %s. Please try again!", recipe.Title)
	}

	if err := s.db.WithContext(ctx).Model(recipe).Update("image_filename", name).Error; err != nil {
		return fmt.Errorf("failed to record image for recipe %d: %w", recipeID, err)
	}
	return nil
}

// LoadImage opens the recipe's image. When several supported extensions
// exist the last one in SupportedImageExtensions wins.
func (s *ImageService) LoadImage(ctx context.Context, recipeID uint) (io.ReadCloser, string, error) {
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return nil, "", err
	}

	base := ImageBaseName(recipe)
	found := ""
	for _, ext := range SupportedImageExtensions {
		ok, err := s.store.Exists(ctx, base+ext)
		if err != nil {
			return nil, "", fmt.Errorf("failed to probe image %s: %w", base+ext, err)
		}
		if ok {
			found = base + ext
		}
	}
	if found == "" {
		return nil, "", fmt.Errorf("%w: no matching file for recipe %d", ErrImageNotFound, recipeID)
	}

	rc, err := s.store.Get(ctx, found)
	if err != nil {
		return nil, "", err
	}
	return rc, found, nil
}

func (s *ImageService) recipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ImageBaseName is "{recipeId}_{title}" with path separators replaced.
func ImageBaseName(r *models.Recipe) string {
	title := strings.NewReplacer("/", "_", `\`, "_").Replace(r.Title)
	return fmt.Sprintf("%d_%s", r.ID, title)
}

// ImageExtension returns the lower-cased extension of name starting at its last
// dot, or "" when there is none or the dot is the first character.
func ImageExtension(name string) string {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return ""
	}
	ext := name[dot:]
	if strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return strings.ToLower(ext)
}
