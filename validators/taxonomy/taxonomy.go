package taxonomyValidator

import (
	"strings"

	"trainhub/services/taxonomy"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func CreateAsset() fiber.Handler {
	return common.Body("assetInput", func(in *taxonomy.AssetInput) []string {
		trim(&in.Name)
		return nil
	})
}

func UpdateAsset() fiber.Handler {
	return common.Body("assetUpdate", func(in *taxonomy.AssetUpdate) []string {
		trim(in.Name)
		return nil
	})
}

func CreateSubAsset() fiber.Handler {
	return common.Body("subAssetInput", func(in *taxonomy.SubAssetInput) []string {
		trim(&in.Name)
		return nil
	})
}

func UpdateSubAsset() fiber.Handler {
	return common.Body("subAssetUpdate", func(in *taxonomy.SubAssetUpdate) []string {
		trim(in.Name)
		return nil
	})
}

func RoleCategory() fiber.Handler {
	return common.Body("roleCategoryInput", func(in *taxonomy.RoleCategoryInput) []string {
		trim(&in.Name)
		return nil
	})
}

func CreateRole() fiber.Handler {
	return common.Body("roleInput", func(in *taxonomy.RoleInput) []string {
		trim(&in.Name)
		return nil
	})
}

// CreateRoles validates a bulk insert and rejects repeated names.
func CreateRoles() fiber.Handler {
	return common.Body("bulkRolesInput", func(in *taxonomy.BulkRolesInput) []string {
		seen := make(map[string]bool, len(in.Names))
		for i := range in.Names {
			trim(&in.Names[i])
			key := strings.ToLower(in.Names[i])
			if seen[key] {
				return []string{"names must not contain duplicates: " + in.Names[i]}
			}
			seen[key] = true
		}
		return nil
	})
}

func UpdateRole() fiber.Handler {
	return common.Body("roleUpdate", func(in *taxonomy.RoleUpdate) []string {
		trim(in.Name)
		return nil
	})
}

func CreateSeniorityLevel() fiber.Handler {
	return common.Body("seniorityLevelInput", func(in *taxonomy.SeniorityLevelInput) []string {
		trim(&in.Name)
		return nil
	})
}

func UpdateSeniorityLevel() fiber.Handler {
	return common.Body("seniorityLevelUpdate", func(in *taxonomy.SeniorityLevelUpdate) []string {
		trim(in.Name)
		return nil
	})
}

type ChildQuery struct {
	AssetID    uint `query:"assetId"`
	CategoryID uint `query:"categoryId"`
}

// Children reads the optional parent filter of sub-asset and role lists.
func Children() fiber.Handler {
	return common.Query[ChildQuery]("childQuery")
}
