package controller

import (
	"mdc-notebook-be/internal/dto"
	"mdc-notebook-be/internal/pkg/serverutils"
	"mdc-notebook-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOrganizationController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type organizationController struct {
	service service.IOrganizationService
}

func NewOrganizationController(service service.IOrganizationService) IOrganizationController {
	return &organizationController{service: service}
}

func (c *organizationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/organizations")
	h.Post("", c.Create)
	h.Get("", c.GetAll)
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func (c *organizationController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateOrganizationRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Organization created successfully", res))
}

func (c *organizationController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Organizations retrieved successfully", res))
}

func (c *organizationController) Show(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.GetByID(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Organization retrieved successfully", res))
}

func (c *organizationController) Update(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateOrganizationRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Organization updated successfully", res))
}

func (c *organizationController) Delete(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Organization deleted successfully", nil))
}
