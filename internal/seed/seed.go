package seed

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"

	"inkwell/internal/models"
	"inkwell/internal/storage"

	"gorm.io/gorm"
)

// Seeder populates the database and file area with demo data.
type Seeder struct {
	db      *gorm.DB
	files   storage.FileStore
	factory *Factory
}

// NewSeeder creates a Seeder over the given database and file store.
func NewSeeder(db *gorm.DB, files storage.FileStore) *Seeder {
	return &Seeder{
		db:      db,
		files:   files,
		factory: NewFactory(db),
	}
}

// ClearAll removes all seeded rows. Posts go first to respect the creator
// foreign key.
func (s *Seeder) ClearAll() error {
	if err := s.db.Unscoped().Where("1 = 1").Delete(&models.Post{}).Error; err != nil {
		return fmt.Errorf("failed to clear posts: %w", err)
	}
	if err := s.db.Unscoped().Where("1 = 1").Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	return nil
}

// SeedUsers creates n demo accounts.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))
	return users, nil
}

// SeedPosts creates n demo posts spread across the given users. Every post
// gets a real thumbnail file so records never point at missing files.
func (s *Seeder) SeedPosts(users []*models.User, n int) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to attach posts to")
	}

	thumb, err := placeholderPNG()
	if err != nil {
		return err
	}

	counts := make(map[uint]int, len(users))
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		creator := users[i%len(users)]
		filename := storage.GenerateFilename("seed.png")
		if err := s.files.Save(filename, thumb); err != nil {
			return fmt.Errorf("failed to write seed thumbnail: %w", err)
		}
		posts = append(posts, s.factory.BuildPost(creator, filename))
		counts[creator.ID]++
	}

	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return err
	}

	// Bring the denormalized counters in line with what was just inserted
	for id, count := range counts {
		if err := s.db.Model(&models.User{}).
			Where("id = ?", id).
			UpdateColumn("posts", count).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d posts", len(posts))
	return nil
}

func placeholderPNG() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
