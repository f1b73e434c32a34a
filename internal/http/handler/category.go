package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"docarchive/internal/domain"
	"docarchive/internal/service"
)

func bindCategory(c *fiber.Ctx) (service.CategoryInput, error) {
	var in service.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return in, domain.NewValidation("invalid request body")
	}
	return in, nil
}

// ListCategories returns all categories with their document counts.
//
//	@Summary	List categories
//	@Tags		categories
//	@Produce	json
//	@Success	200	{array}	model.Category
//	@Router		/categories [get]
func ListCategories(svc service.CategoryService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, logger, err)
		}
		return c.JSON(items)
	}
}

// CreateCategory creates a category.
//
//	@Summary	Create category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		body	body		service.CategoryInput	true	"category"
//	@Success	201		{object}	model.Category
//	@Failure	400		{object}	errorPayload
//	@Router		/categories [post]
func CreateCategory(svc service.CategoryService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, err := bindCategory(c)
		if err != nil {
			return writeServiceError(c, logger, err)
		}
		created, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// GetCategory returns one category.
//
//	@Summary	Get category
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"category id"
//	@Success	200	{object}	model.Category
//	@Failure	404	{object}	errorPayload
//	@Router		/categories/{id} [get]
func GetCategory(svc service.CategoryService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, logger, err)
		}
		return c.JSON(item)
	}
}

// UpdateCategory renames or recolors a category.
//
//	@Summary	Update category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"category id"
//	@Param		body	body		service.CategoryInput	true	"category"
//	@Success	200		{object}	model.Category
//	@Failure	400		{object}	errorPayload
//	@Failure	404		{object}	errorPayload
//	@Router		/categories/{id} [put]
func UpdateCategory(svc service.CategoryService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, err := bindCategory(c)
		if err != nil {
			return writeServiceError(c, logger, err)
		}
		updated, err := svc.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return writeServiceError(c, logger, err)
		}
		return c.JSON(updated)
	}
}

// DeleteCategory removes an empty category.
//
//	@Summary	Delete category
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"category id"
//	@Success	200	{object}	messageResponse
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/categories/{id} [delete]
func DeleteCategory(svc service.CategoryService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, logger, err)
		}
		return c.JSON(messageResponse{Message: "Category deleted successfully"})
	}
}
