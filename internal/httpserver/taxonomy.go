package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/truongnx/gearstore/internal/logging"
	"github.com/truongnx/gearstore/internal/service"
)

type TaxonomyHTTP struct {
	Svc *service.TaxonomyService
}

func (h *TaxonomyHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.Svc.ListCategories(ctx, !isAdmin(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": categories})
}

func (h *TaxonomyHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	category, err := h.Svc.GetCategory(ctx, uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *TaxonomyHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "taxonomy.create_category")

	var req service.CategoryInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	category, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		l.Warn("create_category_error", "error", err)
		return httpError(err)
	}

	l.Info("create_category_success", "category_id", category.ID)
	return c.JSON(http.StatusCreated, category)
}

func (h *TaxonomyHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "taxonomy.update_category")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	var req service.CategoryInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	category, err := h.Svc.UpdateCategory(ctx, uint(id), req)
	if err != nil {
		l.Warn("update_category_error", "category_id", id, "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *TaxonomyHTTP) DeactivateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "taxonomy.deactivate_category")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	if err := h.Svc.DeactivateCategory(ctx, uint(id)); err != nil {
		l.Warn("deactivate_category_error", "category_id", id, "error", err)
		return httpError(err)
	}

	l.Info("deactivate_category_success", "category_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *TaxonomyHTTP) ListBrands(c echo.Context) error {
	ctx := c.Request().Context()

	brands, err := h.Svc.ListBrands(ctx, !isAdmin(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": brands})
}

func (h *TaxonomyHTTP) GetBrand(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid brand id")
	}

	brand, err := h.Svc.GetBrand(ctx, uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, brand)
}

func (h *TaxonomyHTTP) CreateBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "taxonomy.create_brand")

	var req service.BrandInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	brand, err := h.Svc.CreateBrand(ctx, req)
	if err != nil {
		l.Warn("create_brand_error", "error", err)
		return httpError(err)
	}

	l.Info("create_brand_success", "brand_id", brand.ID)
	return c.JSON(http.StatusCreated, brand)
}

func (h *TaxonomyHTTP) UpdateBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "taxonomy.update_brand")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid brand id")
	}

	var req service.BrandInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	brand, err := h.Svc.UpdateBrand(ctx, uint(id), req)
	if err != nil {
		l.Warn("update_brand_error", "brand_id", id, "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, brand)
}

func (h *TaxonomyHTTP) DeactivateBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "taxonomy.deactivate_brand")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid brand id")
	}

	if err := h.Svc.DeactivateBrand(ctx, uint(id)); err != nil {
		l.Warn("deactivate_brand_error", "brand_id", id, "error", err)
		return httpError(err)
	}

	l.Info("deactivate_brand_success", "brand_id", id)
	return c.NoContent(http.StatusNoContent)
}
