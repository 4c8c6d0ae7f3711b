package controller

import (
	"mdc-notebook-be/internal/dto"
	"mdc-notebook-be/internal/pkg/apperror"
	"mdc-notebook-be/internal/pkg/serverutils"
	"mdc-notebook-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	ChangePassword(ctx *fiber.Ctx) error
}

type userController struct {
	service     service.IUserService
	authService service.IAuthService
}

func NewUserController(service service.IUserService, authService service.IAuthService) IUserController {
	return &userController{
		service:     service,
		authService: authService,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users")
	h.Post("/change-password", serverutils.JwtMiddleware(c.authService), c.ChangePassword)
	h.Post("", c.Create)
	h.Get("", c.GetAll)
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func (c *userController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("User created successfully", res))
}

func (c *userController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Users retrieved successfully", res))
}

func (c *userController) Show(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.GetByID(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("User retrieved successfully", res))
}

func (c *userController) Update(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("User updated successfully", res))
}

func (c *userController) Delete(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("User deleted successfully", nil))
}

func (c *userController) ChangePassword(ctx *fiber.Ctx) error {
	userId, ok := serverutils.UserID(ctx)
	if !ok {
		return apperror.Unauthorized("Missing token")
	}

	var req dto.ChangePasswordRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	if err := c.authService.ChangePassword(ctx.UserContext(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Password changed successfully", nil))
}
