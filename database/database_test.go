package database_test

import (
	"io"
	"os"
	"testing"

	"trainhub/models"
	"trainhub/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLoggerSkipsRecordNotFound(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = stdout })

	testutil.Config(t)
	db := testutil.DB(t)

	var u models.User
	assert.ErrorIs(t, db.First(&u, 12345).Error, gorm.ErrRecordNotFound)
	assert.Error(t, db.Exec("SELECT * FROM missing_table").Error)

	os.Stdout = stdout
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "record not found")
	assert.Contains(t, string(out), "missing_table")
}
