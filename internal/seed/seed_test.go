package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/repositories/memory"
	"github.com/yigit/codetrack/internal/config"
	"github.com/yigit/codetrack/internal/pkg/auth"
)

func seedConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Seed.AdminEmail = " Root@Example.com "
	cfg.Seed.AdminPassword = "root-pass"
	cfg.Seed.AdminName = "Root"
	cfg.Seed.Departments = []config.SeedDepartment{
		{Name: "Computer Science", Code: "cse"},
		{Name: " Physics ", Code: "PHY"},
	}
	return cfg
}

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	hasher := &auth.BcryptHasher{Cost: bcrypt.MinCost}
	cfg := seedConfig()

	require.NoError(t, CreateDefaultData(ctx, store, hasher, cfg, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, store, hasher, cfg, zerolog.Nop()))

	depts, err := store.Departments().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, depts, 2)

	cse, err := store.Departments().GetByCode(ctx, "CSE")
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", cse.Name)
	phy, err := store.Departments().GetByCode(ctx, "PHY")
	require.NoError(t, err)
	assert.Equal(t, "Physics", phy.Name)

	admin, err := store.Users().GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.True(t, admin.Roles.Has(models.RoleAdmin))
	assert.True(t, admin.IsActive)
	assert.True(t, hasher.Compare(admin.PasswordHash, "root-pass"))
}

func TestCreateDefaultDataSkipsAdminWithoutCredentials(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	cfg := seedConfig()
	cfg.Seed.AdminPassword = ""

	require.NoError(t, CreateDefaultData(ctx, store, &auth.BcryptHasher{Cost: bcrypt.MinCost}, cfg, zerolog.Nop()))

	exists, err := store.Users().EmailExists(ctx, "root@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}
