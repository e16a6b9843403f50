package userValidator

import (
	"strings"

	"trainhub/models"
	"trainhub/services/user"
	"trainhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

// subAdminOnlyForUsers rejects a managing sub admin on non frontliner accounts.
func subAdminOnlyForUsers(userType models.UserType, subAdminID *uint) []string {
	if subAdminID != nil && userType != "" && userType != models.UserTypeUser {
		return []string{"subAdminId is only allowed for userType user"}
	}
	return nil
}

func subAssetNeedsAsset(assetID, subAssetID *uint) []string {
	if subAssetID != nil && assetID == nil {
		return []string{"assetId is required when subAssetId is set"}
	}
	return nil
}

func roleNeedsCategory(roleCategoryID, roleID *uint) []string {
	if roleID != nil && roleCategoryID == nil {
		return []string{"roleCategoryId is required when roleId is set"}
	}
	return nil
}

func CreateUser() fiber.Handler {
	return common.Body("createUserInput", func(in *user.CreateUserInput) []string {
		in.Name = strings.TrimSpace(in.Name)
		var errs []string
		errs = append(errs, subAdminOnlyForUsers(in.UserType, in.SubAdminID)...)
		errs = append(errs, subAssetNeedsAsset(in.AssetID, in.SubAssetID)...)
		errs = append(errs, roleNeedsCategory(in.RoleCategoryID, in.RoleID)...)
		return errs
	})
}

// UpdateUser only validates the fields present in the body.
func UpdateUser() fiber.Handler {
	return common.Body("updateUserInput", func(in *user.UpdateUserInput) []string {
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return []string{"name cannot be empty"}
			}
			in.Name = &name
		}
		return nil
	})
}

type StatusInput struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func SetStatus() fiber.Handler {
	return common.Body[StatusInput]("statusInput")
}

func ListUsers() fiber.Handler {
	return common.Query[user.ListFilter]("userFilter")
}

func CreateSubAdmin() fiber.Handler {
	return common.Body("createSubAdminInput", func(in *user.CreateSubAdminInput) []string {
		in.Name = strings.TrimSpace(in.Name)
		var errs []string
		errs = append(errs, subAssetNeedsAsset(in.AssetID, in.SubAssetID)...)
		errs = append(errs, roleNeedsCategory(in.RoleCategoryID, in.RoleID)...)
		return errs
	})
}

func CreateInvitation() fiber.Handler {
	return common.Body("invitationInput", func(in *user.InvitationInput) []string {
		in.Email = strings.ToLower(strings.TrimSpace(in.Email))
		if in.UserType == "" {
			in.UserType = models.UserTypeUser
		}
		return subAdminOnlyForUsers(in.UserType, in.SubAdminID)
	})
}

func ListInvitations() fiber.Handler {
	return common.Query[user.InvitationFilter]("invitationFilter")
}
