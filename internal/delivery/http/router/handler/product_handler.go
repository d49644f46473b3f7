package handler

import (
	"net/http"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ProductHandler holds dependencies for catalog handlers.
type ProductHandler struct {
	uc usecase.ProductUsecase
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type saveProductRequest struct {
	Name           string           `json:"name" validate:"required,max=200"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	OriginalPrice  *decimal.Decimal `json:"originalPrice"`
	Category       string           `json:"category" validate:"required"`
	Brand          string           `json:"brand"`
	Quantity       int              `json:"quantity" validate:"gte=0"`
	SKU            string           `json:"sku"`
	TrackInventory bool             `json:"trackInventory"`
	IsActive       bool             `json:"isActive"`
	IsFeatured     bool             `json:"isFeatured"`
}

func (r *saveProductRequest) toInput() (usecase.SaveProductInput, error) {
	category := entity.Category(r.Category)
	if !category.IsValid() {
		return usecase.SaveProductInput{}, domainerrors.NewValidationError(domainerrors.FieldError{
			Field:   "category",
			Message: "category must be a valid catalog category",
		})
	}
	if r.Price.IsNegative() {
		return usecase.SaveProductInput{}, domainerrors.NewValidationError(domainerrors.FieldError{
			Field:   "price",
			Message: "price must not be negative",
		})
	}

	return usecase.SaveProductInput{
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		OriginalPrice:  r.OriginalPrice,
		Category:       category,
		Brand:          r.Brand,
		Quantity:       r.Quantity,
		SKU:            r.SKU,
		TrackInventory: r.TrackInventory,
		IsActive:       r.IsActive,
		IsFeatured:     r.IsFeatured,
	}, nil
}

type addReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=500"`
}

// List handles the public catalog listing with filters and sorting.
func (h *ProductHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	input := usecase.ListProductsInput{
		Page:     page,
		Limit:    limit,
		Search:   c.QueryParam("search"),
		Featured: queryBool(c, "featured"),
		MinPrice: queryDecimal(c, "minPrice"),
		MaxPrice: queryDecimal(c, "maxPrice"),
		Sort:     repository.ProductSort(c.QueryParam("sort")),
	}

	if raw := c.QueryParam("category"); raw != "" {
		category := entity.Category(raw)
		if !category.IsValid() {
			return domainerrors.NewValidationError(domainerrors.FieldError{
				Field:   "category",
				Message: "category must be a valid catalog category",
			})
		}
		input.Category = &category
	}

	// Only administrators may see inactive products.
	if user, ok := middleware.CurrentUser(c); ok && user.IsAdmin() {
		if inactive := queryBool(c, "includeInactive"); inactive != nil {
			input.IncludeInactive = *inactive
		}
	}

	result, err := h.uc.ListProducts(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Page(c, result.Products, response.NewPagination(result.Page, result.Limit, result.Total), "")
}

// Get returns a single product with its reviews.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "")
}

// Categories lists the valid catalog categories.
func (h *ProductHandler) Categories(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.uc.Categories(c.Request().Context()), "")
}

// Create adds a catalog entry (admin).
func (h *ProductHandler) Create(c echo.Context) error {
	var req saveProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := req.toInput()
	if err != nil {
		return err
	}

	product, err := h.uc.CreateProduct(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created successfully")
}

// Update replaces the editable fields of a catalog entry (admin).
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req saveProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := req.toInput()
	if err != nil {
		return err
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated successfully")
}

// Delete removes a catalog entry (admin).
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Product deleted successfully")
}

// UploadImage stores an uploaded product image (admin, multipart form).
func (h *ProductHandler) UploadImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "An image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded file")
	}
	defer file.Close()

	product, err := h.uc.AddProductImage(c.Request().Context(), id,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Image uploaded successfully")
}

// AddReview appends a review for the authenticated user.
func (h *ProductHandler) AddReview(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return domainerrors.ErrUnauthenticated
	}

	var req addReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.uc.AddReview(c.Request().Context(), id, user.ID, usecase.AddReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Review added successfully")
}
