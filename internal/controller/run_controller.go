package controller

import (
	"mdc-notebook-be/internal/dto"
	"mdc-notebook-be/internal/pkg/apperror"
	"mdc-notebook-be/internal/pkg/serverutils"
	"mdc-notebook-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRunController interface {
	RegisterRoutes(r fiber.Router)
	RunNotebook(ctx *fiber.Ctx) error
	ListNotebooks(ctx *fiber.Ctx) error
	RunStatus(ctx *fiber.Ctx) error
}

type runController struct {
	service service.IRunService
}

func NewRunController(service service.IRunService) IRunController {
	return &runController{service: service}
}

func (c *runController) RegisterRoutes(r fiber.Router) {
	r.Post("/run-notebook", c.RunNotebook)
	r.Get("/list-notebooks", c.ListNotebooks)
	r.Get("/run-status/:runId", c.RunStatus)
}

func (c *runController) RunNotebook(ctx *fiber.Ctx) error {
	var req dto.RunNotebookRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return apperror.Validation("Invalid request body")
		}
	}

	res, err := c.service.RunNotebook(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notebook triggered", res))
}

func (c *runController) ListNotebooks(ctx *fiber.Ctx) error {
	res, err := c.service.ListNotebooks(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notebooks retrieved successfully", res))
}

func (c *runController) RunStatus(ctx *fiber.Ctx) error {
	res, err := c.service.GetRunStatus(ctx.UserContext(), ctx.Params("runId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Run status retrieved successfully", res))
}
