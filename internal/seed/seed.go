package seed

import (
	"fmt"
	"log"

	"quill/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumGroups   int
	NumPosts    int
	ShouldClean bool
	// MaxDays bounds how far in the past generated posts are dated.
	MaxDays int
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users, %d groups and %d posts...", opts.NumUsers, opts.NumGroups, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("✓ %d test users created", len(users))

	groups := make([]*models.Group, 0, opts.NumGroups)
	for i := 0; i < opts.NumGroups; i++ {
		group, err := factory.CreateGroup()
		if err != nil {
			return fmt.Errorf("failed to create groups: %w", err)
		}
		groups = append(groups, group)
	}
	log.Printf("✓ %d groups created", len(groups))

	posts, err := createPosts(factory, users, groups, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	comments, err := createComments(factory, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ %d comments created", comments)

	follows, err := createFollowMesh(factory, users)
	if err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}
	log.Printf("✓ %d follow edges created", follows)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, follows, posts, groups, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createPosts(factory *Factory, users []*models.User, groups []*models.Group, count int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[factory.rng.Intn(len(users))]
		post := factory.BuildPost(author)
		// roughly two thirds of posts belong to a group
		if len(groups) > 0 && factory.rng.Intn(3) != 0 {
			group := groups[factory.rng.Intn(len(groups))]
			post.GroupID = &group.ID
		}
		posts = append(posts, post)
	}
	if err := factory.CreatePostsBatch(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func createComments(factory *Factory, users []*models.User, posts []*models.Post) (int, error) {
	total := 0
	for _, post := range posts {
		for i := factory.rng.Intn(4); i > 0; i-- {
			commenter := users[factory.rng.Intn(len(users))]
			if _, err := factory.CreateComment(commenter, post); err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}

// createFollowMesh wires a sparse random follow graph between the seeded
// users so the follow feed has content out of the box.
func createFollowMesh(factory *Factory, users []*models.User) (int, error) {
	total := 0
	for _, user := range users {
		for i := factory.rng.Intn(5); i > 0; i-- {
			author := users[factory.rng.Intn(len(users))]
			if author.ID == user.ID {
				continue
			}
			if err := factory.CreateFollow(user, author); err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
