package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type migrationStoreStub struct {
	applied     []int
	ran         []int
	reverted    []int
	revertedSQL string
}

func (s *migrationStoreStub) GetAppliedMigrations(context.Context) ([]int, error) {
	return s.applied, nil
}

func (s *migrationStoreStub) ApplyMigration(_ context.Context, version int, _, _ string) error {
	s.ran = append(s.ran, version)
	return nil
}

func (s *migrationStoreStub) RevertMigration(_ context.Context, version int, _, sql string) error {
	s.reverted = append(s.reverted, version)
	s.revertedSQL = sql
	return nil
}

func TestEmbeddedMigrationsRegistered(t *testing.T) {
	registered := GetMigrations()
	require.NotEmpty(t, registered)

	first := GetMigrationByVersion(1)
	require.NotNil(t, first)
	assert.Equal(t, "000001_init_schema", first.String())
	assert.Contains(t, first.UpScript, "CREATE TABLE IF NOT EXISTS post_likes")
	assert.Contains(t, first.DownScript, "DROP TABLE IF EXISTS users")
	assert.Nil(t, GetMigrationByVersion(999999))
}

func TestApplyPending_SkipsApplied(t *testing.T) {
	registered := []Migration{{Version: 1, Name: "a"}, {Version: 2, Name: "b"}, {Version: 3, Name: "c"}}
	store := &migrationStoreStub{applied: []int{1}}

	require.NoError(t, applyPending(context.Background(), store, registered))
	assert.Equal(t, []int{2, 3}, store.ran)
}

func TestValidateAppliedVersions_RejectsUnknown(t *testing.T) {
	registered := []Migration{{Version: 1}}

	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1}, registered))

	err := validateAppliedVersions([]int{1, 7, 4}, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000004, 000007")
}

func TestRollback_RevertsInitSchema(t *testing.T) {
	store := &migrationStoreStub{applied: []int{1}}

	require.NoError(t, rollback(context.Background(), store, GetMigrations(), 1))
	assert.Equal(t, []int{1}, store.reverted)
	assert.Contains(t, store.revertedSQL, "DROP TABLE IF EXISTS users")
}

func TestRollback_Errors(t *testing.T) {
	registered := []Migration{{Version: 1, Name: "a", DownScript: "DROP TABLE a"}}

	t.Run("unknown version", func(t *testing.T) {
		store := &migrationStoreStub{applied: []int{1}}
		err := rollback(context.Background(), store, registered, 2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
		assert.Empty(t, store.reverted)
	})

	t.Run("not applied", func(t *testing.T) {
		store := &migrationStoreStub{}
		err := rollback(context.Background(), store, registered, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has not been applied")
		assert.Empty(t, store.reverted)
	})
}

func TestMigrationStatus_ListsPending(t *testing.T) {
	registered := []Migration{{Version: 1, Name: "a"}, {Version: 2, Name: "b"}}
	store := &migrationStoreStub{applied: []int{1}}

	status, err := migrationStatus(context.Background(), store, registered)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, status.Applied)
	require.Len(t, status.Pending, 1)
	assert.Equal(t, 2, status.Pending[0].Version)
}

func TestMigrationStore_ApplyThenRollback(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&MigrationLog{}))

	registered := []Migration{{
		Version:    1,
		Name:       "widgets",
		UpScript:   "CREATE TABLE widgets (id INTEGER PRIMARY KEY)",
		DownScript: "DROP TABLE widgets",
	}}
	store := NewMigrationStore(db)
	ctx := context.Background()

	require.NoError(t, applyPending(ctx, store, registered))
	assert.True(t, db.Migrator().HasTable("widgets"))

	status, err := migrationStatus(ctx, store, registered)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, status.Applied)
	assert.Empty(t, status.Pending)

	require.NoError(t, rollback(ctx, store, registered, 1))
	assert.False(t, db.Migrator().HasTable("widgets"))

	applied, err := store.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	err = rollback(ctx, store, registered, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has not been applied")
}
