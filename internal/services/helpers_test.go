package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/boxport/boxport-backend/internal/models"
)

// newTestDB opens a fresh in-memory database with the full schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Membership{},
		&models.Invite{},
		&models.Location{},
		&models.Box{},
		&models.Item{},
	)
	require.NoError(t, err)

	return db
}

// fakeStorage is an in-memory ObjectStorage. Uploads and removals can be
// forced to fail to exercise the rollback and warning paths.
type fakeStorage struct {
	objects    map[string][]byte
	failUpload bool
	failRemove bool
	removed    []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Bucket() string { return "item-photos" }

func (f *fakeStorage) PublicURL(key string) string {
	return fmt.Sprintf("https://cdn.example.com/%s/%s", f.Bucket(), key)
}

func (f *fakeStorage) Upload(key string, body []byte, contentType string) (string, error) {
	if f.failUpload {
		return "", errors.New("upload refused")
	}
	f.objects[key] = body
	return f.PublicURL(key), nil
}

func (f *fakeStorage) Remove(keys []string) error {
	f.removed = append(f.removed, keys...)
	if f.failRemove {
		return errors.New("remove refused")
	}
	for _, key := range keys {
		delete(f.objects, key)
	}
	return nil
}
