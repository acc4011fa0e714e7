package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/models"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t, PoolConfig{})

	require.NoError(t, db.Exec("SELECT 1").Error)
	require.NoError(t, Ping(context.Background(), db))
}

func TestOpenSQLiteFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "homework.db")

	db, err := Open(Config{Driver: "sqlite3", Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, db.Exec("SELECT 1").Error)
	require.FileExists(t, path)
}

func TestOpenAppliesPoolSettings(t *testing.T) {
	db := openTestDB(t, PoolConfig{MaxOpenConns: 3, MaxIdleConns: 1, ConnMaxLifetime: time.Minute})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.Equal(t, 3, sqlDB.Stats().MaxOpenConnections)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
}

func TestPingAfterClose(t *testing.T) {
	db := openTestDB(t, PoolConfig{})
	require.NoError(t, Close(db))
	require.Error(t, Ping(context.Background(), db))
	require.Error(t, Ping(context.Background(), nil))
	require.NoError(t, Close(nil))
}

func TestAutoMigrateAndSeedData(t *testing.T) {
	db := openTestDB(t, PoolConfig{})

	require.NoError(t, AutoMigrateAndSeed(db))
	// Seeding twice must not duplicate rows.
	require.NoError(t, AutoMigrateAndSeed(db))

	var roleCount int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roleCount).Error)
	require.EqualValues(t, 4, roleCount)

	var student models.Role
	require.NoError(t, db.Where("name = ?", models.RoleNameStudent).Take(&student).Error)
	require.True(t, student.IsSystem)

	require.Error(t, AutoMigrateAndSeed(nil))
}

func TestAutoMigrateCreatesDomainTables(t *testing.T) {
	db := openTestDB(t, PoolConfig{})
	require.NoError(t, AutoMigrate(db))

	migrator := db.Migrator()
	for _, table := range []any{
		&models.User{},
		&models.Role{},
		&models.Assignment{},
		&models.Submission{},
		&models.AssignmentFile{},
	} {
		require.True(t, migrator.HasTable(table), "missing table for %T", table)
	}
	require.True(t, migrator.HasTable("user_roles"))
}

func TestGormLoggerLevels(t *testing.T) {
	l := NewGormLogger(0)
	silent := l.LogMode(gormlogger.Silent)
	require.NotSame(t, l, silent)

	calls := 0
	fc := func() (string, int64) {
		calls++
		return "SELECT 1", 1
	}

	silent.Trace(context.Background(), time.Now(), fc, fmt.Errorf("boom"))
	require.Zero(t, calls)

	l.Trace(context.Background(), time.Now(), fc, gormlogger.ErrRecordNotFound)
	require.Zero(t, calls)

	l.Trace(context.Background(), time.Now(), fc, fmt.Errorf("boom"))
	require.Equal(t, 1, calls)

	l.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)
	require.Equal(t, 2, calls)
}

func openTestDB(t *testing.T, pool PoolConfig) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: DriverSQLite, DSN: MemoryDSN(uuid.NewString()), Pool: pool})
	require.NoError(t, err)

	t.Cleanup(func() { _ = Close(db) })
	return db
}
