package bootstrap

import (
	"mdc-notebook-be/internal/config"
	"mdc-notebook-be/internal/controller"
	"mdc-notebook-be/internal/pkg/logger"
	"mdc-notebook-be/internal/repository/unitofwork"
	"mdc-notebook-be/internal/service"
	"mdc-notebook-be/pkg/databricks"

	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	AuthController         controller.IAuthController
	UserController         controller.IUserController
	OrganizationController controller.IOrganizationController
	NotebookController     controller.INotebookController
	RunController          controller.IRunController
}

func NewContainer(db *gorm.DB, cfg *config.Config, log logger.ILogger) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)

	workspace := databricks.NewClient(cfg.Databricks.Instance, cfg.Databricks.Token, cfg.Databricks.Timeout)
	if missing := cfg.Databricks.Missing(); len(missing) > 0 {
		log.Warn("BOOTSTRAP", "Databricks settings are incomplete; run endpoints will reject requests", map[string]interface{}{
			"missing": missing,
		})
	}

	return NewContainerWith(uowFactory, workspace, cfg, log)
}

// NewContainerWith wires the controllers on top of already built
// infrastructure, so tests can swap the store or the workspace client.
func NewContainerWith(uowFactory unitofwork.RepositoryFactory, workspace service.Workspace, cfg *config.Config, log logger.ILogger) *Container {
	authService := service.NewAuthService(uowFactory, cfg.Auth.JWTSecret, cfg.Auth.BcryptCost)
	userService := service.NewUserService(uowFactory, cfg.Auth.BcryptCost)
	organizationService := service.NewOrganizationService(uowFactory)
	notebookService := service.NewNotebookService(uowFactory)
	runService := service.NewRunService(workspace, cfg.Databricks, log)

	return &Container{
		Logger: log,

		AuthController:         controller.NewAuthController(authService),
		UserController:         controller.NewUserController(userService, authService),
		OrganizationController: controller.NewOrganizationController(organizationService),
		NotebookController:     controller.NewNotebookController(notebookService),
		RunController:          controller.NewRunController(runService),
	}
}
