package taxonomyRoutes

import (
	taxonomyController "trainhub/controllers/taxonomy"
	"trainhub/middleware"
	"trainhub/validators/common"
	taxonomyValidator "trainhub/validators/taxonomy"

	"github.com/gofiber/fiber/v2"
)

// SetupTaxonomyRoutes exposes the dropdown sources. Reads are open to any
// signed in user, writes are admin only.
func SetupTaxonomyRoutes(router fiber.Router, h *taxonomyController.Controller, auth fiber.Handler) {
	taxonomyGroup := router.Group("/taxonomy", auth)
	admin := middleware.AdminOnly

	assets := taxonomyGroup.Group("/assets")
	assets.Get("/", h.ListAssets)
	assets.Get("/:id", common.ID(), h.GetAsset)
	assets.Post("/", admin, taxonomyValidator.CreateAsset(), h.CreateAsset)
	assets.Put("/:id", admin, common.ID(), taxonomyValidator.UpdateAsset(), h.UpdateAsset)
	assets.Delete("/:id", admin, common.ID(), h.DeleteAsset)

	subAssets := taxonomyGroup.Group("/sub-assets")
	subAssets.Get("/", taxonomyValidator.Children(), h.ListSubAssets)
	subAssets.Get("/:id", common.ID(), h.GetSubAsset)
	subAssets.Post("/", admin, taxonomyValidator.CreateSubAsset(), h.CreateSubAsset)
	subAssets.Put("/:id", admin, common.ID(), taxonomyValidator.UpdateSubAsset(), h.UpdateSubAsset)
	subAssets.Delete("/:id", admin, common.ID(), h.DeleteSubAsset)

	categories := taxonomyGroup.Group("/role-categories")
	categories.Get("/", h.ListRoleCategories)
	categories.Get("/:id", common.ID(), h.GetRoleCategory)
	categories.Post("/", admin, taxonomyValidator.RoleCategory(), h.CreateRoleCategory)
	categories.Put("/:id", admin, common.ID(), taxonomyValidator.RoleCategory(), h.UpdateRoleCategory)
	categories.Delete("/:id", admin, common.ID(), h.DeleteRoleCategory)

	roles := taxonomyGroup.Group("/roles")
	roles.Get("/", taxonomyValidator.Children(), h.ListRoles)
	roles.Post("/bulk", admin, taxonomyValidator.CreateRoles(), h.CreateRoles)
	roles.Get("/:id", common.ID(), h.GetRole)
	roles.Post("/", admin, taxonomyValidator.CreateRole(), h.CreateRole)
	roles.Put("/:id", admin, common.ID(), taxonomyValidator.UpdateRole(), h.UpdateRole)
	roles.Delete("/:id", admin, common.ID(), h.DeleteRole)

	levels := taxonomyGroup.Group("/seniority-levels")
	levels.Get("/", h.ListSeniorityLevels)
	levels.Get("/:id", common.ID(), h.GetSeniorityLevel)
	levels.Post("/", admin, taxonomyValidator.CreateSeniorityLevel(), h.CreateSeniorityLevel)
	levels.Put("/:id", admin, common.ID(), taxonomyValidator.UpdateSeniorityLevel(), h.UpdateSeniorityLevel)
	levels.Delete("/:id", admin, common.ID(), h.DeleteSeniorityLevel)
}
