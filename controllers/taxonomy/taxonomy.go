package taxonomyController

import (
	"trainhub/middleware"
	"trainhub/services/taxonomy"
	"trainhub/validators/common"
	taxonomyValidator "trainhub/validators/taxonomy"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	taxonomy *taxonomy.Service
}

func New(svc *taxonomy.Service) *Controller {
	return &Controller{taxonomy: svc}
}

func (h *Controller) ok(c *fiber.Ctx, message string, data interface{}, err error) error {
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, data)
}

func (h *Controller) created(c *fiber.Ctx, message string, data interface{}, err error) error {
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, message, data)
}

func children(c *fiber.Ctx) *taxonomyValidator.ChildQuery {
	if q, ok := c.Locals("childQuery").(*taxonomyValidator.ChildQuery); ok {
		return q
	}
	return &taxonomyValidator.ChildQuery{}
}

// Assets

func (h *Controller) ListAssets(c *fiber.Ctx) error {
	rows, err := h.taxonomy.ListAssets(c.UserContext())
	return h.ok(c, "Assets fetched", rows, err)
}

func (h *Controller) GetAsset(c *fiber.Ctx) error {
	row, err := h.taxonomy.GetAsset(c.UserContext(), common.LocalID(c, "id"))
	return h.ok(c, "Asset fetched", row, err)
}

func (h *Controller) CreateAsset(c *fiber.Ctx) error {
	in := c.Locals("assetInput").(*taxonomy.AssetInput)
	row, err := h.taxonomy.CreateAsset(c.UserContext(), *in)
	return h.created(c, "Asset created", row, err)
}

func (h *Controller) UpdateAsset(c *fiber.Ctx) error {
	in := c.Locals("assetUpdate").(*taxonomy.AssetUpdate)
	row, err := h.taxonomy.UpdateAsset(c.UserContext(), common.LocalID(c, "id"), *in)
	return h.ok(c, "Asset updated", row, err)
}

func (h *Controller) DeleteAsset(c *fiber.Ctx) error {
	err := h.taxonomy.DeleteAsset(c.UserContext(), common.LocalID(c, "id"))
	return h.ok(c, "Asset deleted", nil, err)
}

// Sub-assets

func (h *Controller) ListSubAssets(c *fiber.Ctx) error {
	rows, err := h.taxonomy.ListSubAssets(c.UserContext(), children(c).AssetID)
	return h.ok(c, "Sub-assets fetched", rows, err)
}

func (h *Controller) GetSubAsset(c *fiber.Ctx) error {
	row, err := h.taxonomy.GetSubAsset(c.UserContext(), common.LocalID(c, "id"))
	return h.ok(c, "Sub-asset fetched", row, err)
}

func (h *Controller) CreateSubAsset(c *fiber.Ctx) error {
	in := c.Locals("subAssetInput").(*taxonomy.SubAssetInput)
	row, err := h.taxonomy.CreateSubAsset(c.UserContext(), *in)
	return h.created(c, "Sub-asset created", row, err)
}

func (h *Controller) UpdateSubAsset(c *fiber.Ctx) error {
	in := c.Locals("subAssetUpdate").(*taxonomy.SubAssetUpdate)
	row, err := h.taxonomy.UpdateSubAsset(c.UserContext(), common.LocalID(c, "id"), *in)
	return h.ok(c, "Sub-asset updated", row, err)
}

func (h *Controller) DeleteSubAsset(c *fiber.Ctx) error {
	err := h.taxonomy.DeleteSubAsset(c.UserContext(), common.LocalID(c, "id"))
	return h.ok(c, "Sub-asset deleted", nil, err)
}

// Role categories

func (h *Controller) ListRoleCategories(c *fiber.Ctx) error {
	rows, err := h.taxonomy.ListRoleCategories(c.UserContext())
	return h.ok(c, "Role categories fetched", rows, err)
}

func (h *Controller) GetRoleCategory(c *fiber.Ctx) error {
	row, err := h.taxonomy.GetRoleCategory(c.UserContext(), common.LocalID(c, "id"))
	return h.ok(c, "Role category fetched", row, err)
}

func (h *Controller) CreateRoleCategory(c *fiber.Ctx) error {
	in := c.Locals("roleCategoryInput").(*taxonomy.RoleCategoryInput)
	row, err := h.taxonomy.CreateRoleCategory(c.UserContext(), *in)
	return h.created(c, "Role category created", row, err)
}

func (h *Controller) UpdateRoleCategory(c *fiber.Ctx) error {
	in := c.Locals("roleCategoryInput").(*taxonomy.RoleCategoryInput)
	row, err := h.taxonomy.UpdateRoleCategory(c.UserContext(), common.LocalID(c, "id"), *in)
	return h.ok(c, "Role category updated", row, err)
}

func (h *Controller) DeleteRoleCategory(c *fiber.Ctx) error {
	err := h.taxonomy.DeleteRoleCategory(c.UserContext(), common.LocalID(c, "id"))
	return h.ok(c, "Role category deleted", nil, err)
}

// Roles

func (h *Controller) ListRoles(c *fiber.Ctx) error {
	rows, err := h.taxonomy.ListRoles(c.UserContext(), children(c).CategoryID)
	return h.ok(c, "Roles fetched", rows, err)
}

func (h *Controller) GetRole(c *fiber.Ctx) error {
	row, err := h.taxonomy.GetRole(c.UserContext(), common.LocalID(c, "id"))
	return h.ok(c, "Role fetched", row, err)
}

func (h *Controller) CreateRole(c *fiber.Ctx) error {
	in := c.Locals("roleInput").(*taxonomy.RoleInput)
	row, err := h.taxonomy.CreateRole(c.UserContext(), *in)
	return h.created(c, "Role created", row, err)
}

func (h *Controller) CreateRoles(c *fiber.Ctx) error {
	in := c.Locals("bulkRolesInput").(*taxonomy.BulkRolesInput)
	rows, err := h.taxonomy.CreateRoles(c.UserContext(), *in)
	return h.created(c, "Roles created", rows, err)
}

func (h *Controller) UpdateRole(c *fiber.Ctx) error {
	in := c.Locals("roleUpdate").(*taxonomy.RoleUpdate)
	row, err := h.taxonomy.UpdateRole(c.UserContext(), common.LocalID(c, "id"), *in)
	return h.ok(c, "Role updated", row, err)
}

func (h *Controller) DeleteRole(c *fiber.Ctx) error {
	err := h.taxonomy.DeleteRole(c.UserContext(), common.LocalID(c, "id"))
	return h.ok(c, "Role deleted", nil, err)
}

// Seniority levels

func (h *Controller) ListSeniorityLevels(c *fiber.Ctx) error {
	rows, err := h.taxonomy.ListSeniorityLevels(c.UserContext())
	return h.ok(c, "Seniority levels fetched", rows, err)
}

func (h *Controller) GetSeniorityLevel(c *fiber.Ctx) error {
	row, err := h.taxonomy.GetSeniorityLevel(c.UserContext(), common.LocalID(c, "id"))
	return h.ok(c, "Seniority level fetched", row, err)
}

func (h *Controller) CreateSeniorityLevel(c *fiber.Ctx) error {
	in := c.Locals("seniorityLevelInput").(*taxonomy.SeniorityLevelInput)
	row, err := h.taxonomy.CreateSeniorityLevel(c.UserContext(), *in)
	return h.created(c, "Seniority level created", row, err)
}

func (h *Controller) UpdateSeniorityLevel(c *fiber.Ctx) error {
	in := c.Locals("seniorityLevelUpdate").(*taxonomy.SeniorityLevelUpdate)
	row, err := h.taxonomy.UpdateSeniorityLevel(c.UserContext(), common.LocalID(c, "id"), *in)
	return h.ok(c, "Seniority level updated", row, err)
}

func (h *Controller) DeleteSeniorityLevel(c *fiber.Ctx) error {
	err := h.taxonomy.DeleteSeniorityLevel(c.UserContext(), common.LocalID(c, "id"))
	return h.ok(c, "Seniority level deleted", nil, err)
}
