package database

import (
	"fmt"
	"testing"
	"time"

	"hospital-workflow-backend/internal/config"
	"hospital-workflow-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: fmt.Sprintf("file:seed_%d?mode=memory&cache=shared", time.Now().UnixNano()),
		},
		Server: config.ServerConfig{GinMode: "release"},
	}
}

func openMigrated(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Connect(sqliteConfig(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "oracle"}}
	_, err := Connect(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestConnect_GormLoggerSkipsRecordNotFound(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := Connect(sqliteConfig(t), zap.New(core))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	var room models.Room
	err = db.First(&room, 999).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.FilterMessageSnippet("record not found").Len())

	err = db.Exec("SELECT * FROM missing_table").Error
	require.Error(t, err)
	failures := logs.FilterMessageSnippet("missing_table").All()
	require.NotEmpty(t, failures)
	assert.Equal(t, "gorm", failures[0].LoggerName)
	assert.Equal(t, zapcore.WarnLevel, failures[0].Level)
}

func TestSeedReferenceData_Idempotent(t *testing.T) {
	db := openMigrated(t)

	require.NoError(t, SeedReferenceData(db, zap.NewNop()))
	require.NoError(t, SeedReferenceData(db, zap.NewNop()))

	var rooms, departments, nurses, doctors, persons int64
	db.Model(&models.Room{}).Count(&rooms)
	db.Model(&models.Department{}).Count(&departments)
	db.Model(&models.Nurse{}).Count(&nurses)
	db.Model(&models.Doctor{}).Count(&doctors)
	db.Model(&models.Person{}).Count(&persons)

	assert.Equal(t, int64(len(seedRooms)), rooms)
	assert.Equal(t, int64(len(seedDepartments)), departments)
	assert.Equal(t, int64(1), nurses)
	assert.Equal(t, int64(1), doctors)
	assert.Equal(t, int64(2), persons)

	var doctor models.Doctor
	require.NoError(t, db.First(&doctor).Error)
	assert.Equal(t, models.AvailabilityAvailable, doctor.Status)
	assert.True(t, doctor.Approved)
	assert.NotNil(t, doctor.DepartmentID)
}

func TestSeedReferenceData_SkipsPopulatedTables(t *testing.T) {
	db := openMigrated(t)
	require.NoError(t, db.Create(&models.Room{Number: 900, Type: "Suite", Capacity: 1}).Error)

	require.NoError(t, SeedReferenceData(db, zap.NewNop()))

	var rooms []models.Room
	require.NoError(t, db.Find(&rooms).Error)
	require.Len(t, rooms, 1)
	assert.Equal(t, 900, rooms[0].Number)
}
