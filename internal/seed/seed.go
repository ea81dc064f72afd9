package seed

import (
	"context"
	"fmt"

	"konishi/internal/database"
	"konishi/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Summary counts what a seeding run created.
type Summary struct {
	Users    int `json:"users" yaml:"users"`
	Posts    int `json:"posts" yaml:"posts"`
	Comments int `json:"comments" yaml:"comments"`
	Replies  int `json:"replies" yaml:"replies"`
	Likes    int `json:"likes" yaml:"likes"`
}

// Seeder populates the store with a generated social graph.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

// NewSeeder creates a Seeder over db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, opts: opts, factory: NewFactory(db, opts)}
}

// Factory exposes the seeder's factory for ad-hoc entities.
func (s *Seeder) Factory() *Factory {
	return s.factory
}

// ClearAll deletes every persisted entity, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	if s.opts.DryRun {
		log.Info().Msg("[dry-run] skipping cleanup")
		return nil
	}
	all := database.PersistentModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(all[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", all[i], err)
		}
	}
	log.Info().Msg("cleared existing data")
	return nil
}

// Run creates users, then posts with comments, replies and likes spread
// across them.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	if s.opts.NumUsers <= 0 {
		return nil, fmt.Errorf("seeding needs at least one user, got %d", s.opts.NumUsers)
	}

	sum := &Summary{}
	f := s.factory

	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	sum.Users = len(users)

	for i := 0; i < s.opts.NumPosts; i++ {
		post, err := f.CreatePost(ctx, s.pick(users))
		if err != nil {
			return nil, err
		}
		sum.Posts++

		n, err := s.likeEach(users, func(u *models.User) error { return f.LikePost(ctx, u, post) })
		if err != nil {
			return nil, err
		}
		sum.Likes += n

		for c := f.faker.Number(0, s.opts.MaxCommentsPerPost); c > 0; c-- {
			comment, err := f.CreateComment(ctx, s.pick(users), post)
			if err != nil {
				return nil, err
			}
			sum.Comments++

			n, err := s.likeEach(users, func(u *models.User) error { return f.LikeComment(ctx, u, comment) })
			if err != nil {
				return nil, err
			}
			sum.Likes += n

			for r := f.faker.Number(0, s.opts.MaxRepliesPerComment); r > 0; r-- {
				reply, err := f.CreateReply(ctx, s.pick(users), comment)
				if err != nil {
					return nil, err
				}
				sum.Replies++

				n, err := s.likeEach(users, func(u *models.User) error { return f.LikeReply(ctx, u, reply) })
				if err != nil {
					return nil, err
				}
				sum.Likes += n
			}
		}
	}

	log.Info().
		Int("users", sum.Users).
		Int("posts", sum.Posts).
		Int("comments", sum.Comments).
		Int("replies", sum.Replies).
		Int("likes", sum.Likes).
		Msg("seeding complete")
	return sum, nil
}

func (s *Seeder) pick(users []*models.User) *models.User {
	return users[s.factory.faker.Number(0, len(users)-1)]
}

// likeEach lets every user like an item with probability LikeChance. Each
// user likes an item at most once.
func (s *Seeder) likeEach(users []*models.User, like func(*models.User) error) (int, error) {
	if s.opts.LikeChance <= 0 {
		return 0, nil
	}
	n := 0
	for _, u := range users {
		if s.factory.faker.Float64Range(0, 1) >= s.opts.LikeChance {
			continue
		}
		if err := like(u); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
