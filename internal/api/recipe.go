package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookwithfriends/backend/internal/middleware"
	"github.com/pageza/cookwithfriends/backend/internal/service"
	"github.com/pageza/cookwithfriends/backend/internal/types"
)

// maxImageSize bounds uploads read into memory by the multipart parser.
const maxImageSize = 10 << 20

type RecipeHandler struct {
	recipes service.IRecipeService
	images  service.IImageService
}

func NewRecipeHandler(recipes service.IRecipeService, images service.IImageService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, images: images}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipe")
	{
		recipes.GET("/random", h.Random)
		recipes.GET("/random/:count", h.RandomStack)
		recipes.GET("/search", h.Search)
		recipes.GET("/:id", h.Get)
		recipes.POST("/add", h.Add)
		recipes.POST("/rate", h.Rate)
		recipes.POST("/image/:id", h.UploadImage)
		recipes.GET("/image/:id", h.GetImage)
	}
}

func (h *RecipeHandler) Random(c *gin.Context) {
	recipe, err := h.recipes.RandomRecipe(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) RandomStack(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count < 1 {
		_ = c.Error(fmt.Errorf("invalid count %q", c.Param("count"))).SetType(gin.ErrorTypeBind)
		return
	}
	recipes, err := h.recipes.RandomRecipes(c.Request.Context(), count)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) Search(c *gin.Context) {
	recipes, err := h.recipes.SearchByTitle(c.Request.Context(), c.Query("title"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.FindByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) Add(c *gin.Context) {
	var req types.AddRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	recipe, err := h.recipes.AddRecipe(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Rate responds with the recipe's rating as a bare integer.
func (h *RecipeHandler) Rate(c *gin.Context) {
	var req types.RateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	rating, err := h.recipes.RateRecipe(c.Request.Context(), req.RecipeID, req.Rating)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *RecipeHandler) UploadImage(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if c.Request.ContentLength > maxImageSize {
		_ = c.Error(fmt.Errorf("%w: %d bytes", middleware.ErrPayloadTooLarge, c.Request.ContentLength))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = c.Error(fmt.Errorf("%w: limit is %d bytes", middleware.ErrPayloadTooLarge, tooLarge.Limit))
			return
		}
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	file, err := header.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer file.Close()

	if err := h.images.StoreImage(c.Request.Context(), id, header.Filename, file); err != nil {
		_ = c.Error(err)
		return
	}
	c.String(http.StatusOK, "Image is uploaded")
}

func (h *RecipeHandler) GetImage(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	rc, name, err := h.images.LoadImage(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", name),
	})
}
