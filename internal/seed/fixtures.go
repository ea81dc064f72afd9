package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"konishi/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixtures is a hand-written data set, referenced by username.
type Fixtures struct {
	Users []UserFixture `yaml:"users"`
	Posts []PostFixture `yaml:"posts"`
}

type UserFixture struct {
	PublicID       string    `yaml:"public_id"`
	Username       string    `yaml:"username"`
	Email          string    `yaml:"email"`
	FullName       string    `yaml:"full_name"`
	ProfilePicture string    `yaml:"profile_picture"`
	Joined         time.Time `yaml:"joined"`
}

type PostFixture struct {
	PublicID  string           `yaml:"public_id"`
	Author    string           `yaml:"author"`
	Content   string           `yaml:"content"`
	ImageFile string           `yaml:"image_file"`
	Created   time.Time        `yaml:"created"`
	LikedBy   []string         `yaml:"liked_by"`
	Comments  []CommentFixture `yaml:"comments"`
}

type CommentFixture struct {
	Author  string         `yaml:"author"`
	Content string         `yaml:"content"`
	Created time.Time      `yaml:"created"`
	LikedBy []string       `yaml:"liked_by"`
	Replies []ReplyFixture `yaml:"replies"`
}

type ReplyFixture struct {
	Author  string    `yaml:"author"`
	Content string    `yaml:"content"`
	Created time.Time `yaml:"created"`
	LikedBy []string  `yaml:"liked_by"`
}

// LoadFixtures decodes a YAML fixture document.
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &fx, nil
}

// LoadFixturesFile decodes the YAML fixture file at path.
func LoadFixturesFile(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return LoadFixtures(f)
}

// ApplyFixtures persists fx in a single transaction. Fields a fixture leaves
// out are generated.
func (s *Seeder) ApplyFixtures(ctx context.Context, fx *Fixtures) (*Summary, error) {
	sum := &Summary{}
	apply := func(tx *gorm.DB) error {
		f := NewFactory(tx, s.opts)
		f.faker = s.factory.faker
		f.taken = s.factory.taken

		users := make(map[string]*models.User, len(fx.Users))
		for _, uf := range fx.Users {
			if _, dup := users[uf.Username]; dup {
				return fmt.Errorf("fixture user %q declared twice", uf.Username)
			}
			u, err := f.CreateUser(ctx, func(u *models.User) {
				u.Username = uf.Username
				u.FullName = uf.FullName
				u.ProfilePicture = uf.ProfilePicture
				if uf.PublicID != "" {
					u.PublicID = uf.PublicID
				}
				if uf.Email != "" {
					u.Email = uf.Email
				}
				if !uf.Joined.IsZero() {
					u.JoinedDate = uf.Joined
				}
			})
			if err != nil {
				return err
			}
			users[uf.Username] = u
			sum.Users++
		}

		lookup := func(name string) (*models.User, error) {
			u, ok := users[name]
			if !ok {
				return nil, fmt.Errorf("fixture references unknown user %q", name)
			}
			return u, nil
		}
		likeAll := func(names []string, like func(*models.User) error) error {
			for _, name := range names {
				u, err := lookup(name)
				if err != nil {
					return err
				}
				if err := like(u); err != nil {
					return err
				}
				sum.Likes++
			}
			return nil
		}

		for _, pf := range fx.Posts {
			author, err := lookup(pf.Author)
			if err != nil {
				return err
			}
			post, err := f.CreatePost(ctx, author, func(p *models.Post) {
				p.Content = pf.Content
				p.ImageFile = pf.ImageFile
				if pf.PublicID != "" {
					p.PublicID = pf.PublicID
				}
				if !pf.Created.IsZero() {
					p.Created = pf.Created
				}
			})
			if err != nil {
				return err
			}
			sum.Posts++
			if err := likeAll(pf.LikedBy, func(u *models.User) error { return f.LikePost(ctx, u, post) }); err != nil {
				return err
			}

			for _, cf := range pf.Comments {
				commenter, err := lookup(cf.Author)
				if err != nil {
					return err
				}
				comment, err := f.CreateComment(ctx, commenter, post, func(c *models.Comment) {
					c.Content = cf.Content
					if !cf.Created.IsZero() {
						c.Created = cf.Created
					}
				})
				if err != nil {
					return err
				}
				sum.Comments++
				if err := likeAll(cf.LikedBy, func(u *models.User) error { return f.LikeComment(ctx, u, comment) }); err != nil {
					return err
				}

				for _, rf := range cf.Replies {
					replier, err := lookup(rf.Author)
					if err != nil {
						return err
					}
					reply, err := f.CreateReply(ctx, replier, comment, func(r *models.Reply) {
						r.Content = rf.Content
						if !rf.Created.IsZero() {
							r.Created = rf.Created
						}
					})
					if err != nil {
						return err
					}
					sum.Replies++
					if err := likeAll(rf.LikedBy, func(u *models.User) error { return f.LikeReply(ctx, u, reply) }); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}

	var err error
	if s.opts.DryRun {
		err = apply(nil)
	} else {
		err = s.db.WithContext(ctx).Transaction(apply)
	}
	if err != nil {
		return nil, err
	}
	return sum, nil
}
