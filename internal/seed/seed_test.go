package seed

import (
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))
	return db
}

func TestSeeder(t *testing.T) {
	db := newSeedDB(t)
	files := testutil.NewMemStore()
	seeder := NewSeeder(db, files)

	users, err := seeder.SeedUsers(5)
	require.NoError(t, err)
	require.Len(t, users, 5)

	require.NoError(t, seeder.SeedPosts(users, 12))

	var postCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Equal(t, int64(12), postCount)

	// every seeded post points at a file that exists
	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		assert.True(t, files.Has(p.Thumbnail), "missing thumbnail %s", p.Thumbnail)
		assert.NotZero(t, p.CreatorID)
	}
	assert.Equal(t, 12, files.Count())

	// the denormalized counters add up to the posts inserted
	var seeded []models.User
	require.NoError(t, db.Find(&seeded).Error)
	total := 0
	for _, u := range seeded {
		total += u.Posts
	}
	assert.Equal(t, 12, total)

	require.NoError(t, seeder.ClearAll())
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Equal(t, int64(0), postCount)
	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.Equal(t, int64(0), userCount)
}

func TestSeedPostsWithoutUsers(t *testing.T) {
	seeder := NewSeeder(newSeedDB(t), testutil.NewMemStore())
	assert.Error(t, seeder.SeedPosts(nil, 3))
}

func TestBuildPost(t *testing.T) {
	factory := NewFactory(newSeedDB(t))
	creator := &models.User{ID: 7}

	post := factory.BuildPost(creator, "thumb.png")
	assert.NotEmpty(t, post.Title)
	assert.NotEmpty(t, post.Description)
	assert.Contains(t, Categories, post.Category)
	assert.Equal(t, "thumb.png", post.Thumbnail)
	assert.Equal(t, uint(7), post.CreatorID)
	assert.False(t, post.CreatedAt.IsZero())
}
