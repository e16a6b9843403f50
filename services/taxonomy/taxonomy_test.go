package taxonomy

import (
	"context"
	"net/http"
	"testing"

	"trainhub/models"
	"trainhub/testutil"
	"trainhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	testutil.Config(t)
	db := testutil.DB(t)
	return NewService(db), db
}

func TestDeleteAssetDetachesUsers(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	asset, err := svc.CreateAsset(ctx, AssetInput{Name: "Warehouse"})
	require.NoError(t, err)
	sub, err := svc.CreateSubAsset(ctx, SubAssetInput{AssetID: asset.ID, Name: "Dock"})
	require.NoError(t, err)

	u := testutil.User(t, db, models.UserTypeUser, "worker@example.com")
	require.NoError(t, db.Model(u).Updates(map[string]interface{}{"asset_id": asset.ID, "sub_asset_id": sub.ID}).Error)

	require.NoError(t, svc.DeleteAsset(ctx, asset.ID))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, u.ID).Error)
	assert.Nil(t, reloaded.AssetID)
	assert.Nil(t, reloaded.SubAssetID)

	_, err = svc.GetSubAsset(ctx, sub.ID)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))

	err = svc.DeleteAsset(ctx, asset.ID)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestDeleteRoleCategoryDetachesUsers(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	cat, err := svc.CreateRoleCategory(ctx, RoleCategoryInput{Name: "Operations"})
	require.NoError(t, err)
	role, err := svc.CreateRole(ctx, RoleInput{CategoryID: cat.ID, Name: "Picker"})
	require.NoError(t, err)

	u := testutil.User(t, db, models.UserTypeUser, "picker@example.com")
	require.NoError(t, db.Model(u).Updates(map[string]interface{}{"role_category_id": cat.ID, "role_id": role.ID}).Error)

	require.NoError(t, svc.DeleteRoleCategory(ctx, cat.ID))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, u.ID).Error)
	assert.Nil(t, reloaded.RoleCategoryID)
	assert.Nil(t, reloaded.RoleID)

	roles, err := svc.ListRoles(ctx, cat.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestNameConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateAsset(ctx, AssetInput{Name: "Warehouse"})
	require.NoError(t, err)
	_, err = svc.CreateAsset(ctx, AssetInput{Name: " warehouse "})
	assert.Equal(t, http.StatusConflict, utils.StatusOf(err))

	other, err := svc.CreateAsset(ctx, AssetInput{Name: "Store"})
	require.NoError(t, err)
	name := "WAREHOUSE"
	_, err = svc.UpdateAsset(ctx, other.ID, AssetUpdate{Name: &name})
	assert.Equal(t, http.StatusConflict, utils.StatusOf(err))

	// renaming to its own name is fine
	same := "Store"
	_, err = svc.UpdateAsset(ctx, other.ID, AssetUpdate{Name: &same})
	assert.NoError(t, err)

	_, err = svc.CreateRoleCategory(ctx, RoleCategoryInput{Name: "Sales"})
	require.NoError(t, err)
	_, err = svc.CreateRoleCategory(ctx, RoleCategoryInput{Name: "sales"})
	assert.Equal(t, http.StatusConflict, utils.StatusOf(err))
}

func TestCreateRolesBulk(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateRoles(ctx, BulkRolesInput{CategoryID: 42, Names: []string{"A1"}})
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))

	cat, err := svc.CreateRoleCategory(ctx, RoleCategoryInput{Name: "Retail"})
	require.NoError(t, err)

	rows, err := svc.CreateRoles(ctx, BulkRolesInput{CategoryID: cat.ID, Names: []string{"Cashier", " Stocker ", "Manager"}})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.NotZero(t, r.ID)
	}

	listed, err := svc.ListRoles(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "Cashier", listed[0].Name)
	assert.Equal(t, "Stocker", listed[2].Name)
}

func TestSeniorityLevelsOrderedByRank(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateSeniorityLevel(ctx, SeniorityLevelInput{Name: "Senior", Rank: 3})
	require.NoError(t, err)
	_, err = svc.CreateSeniorityLevel(ctx, SeniorityLevelInput{Name: "Junior", Rank: 1})
	require.NoError(t, err)

	levels, err := svc.ListSeniorityLevels(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, "Junior", levels[0].Name)
}
