// Package seed provides helpers to create demo and test data for the feed
// store. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"konishi/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded user can log in with.
const DefaultPassword = "password123"

// Options configures the generated data set.
type Options struct {
	NumUsers             int
	NumPosts             int
	MaxCommentsPerPost   int
	MaxRepliesPerComment int
	// LikeChance is the probability in [0,1] that a given user likes a given item.
	LikeChance float64
	// ImageChance is the probability in [0,1] that a post carries an image.
	ImageChance float64
	MaxDays     int
	// Seed makes generation reproducible; zero picks a random seed.
	Seed       int64
	SkipBcrypt bool
	DryRun     bool
}

// DefaultOptions returns a small but varied data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:             20,
		NumPosts:             60,
		MaxCommentsPerPost:   8,
		MaxRepliesPerComment: 4,
		LikeChance:           0.2,
		ImageChance:          0.4,
		MaxDays:              30,
	}
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
	now   time.Time
	taken map[string]bool
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		db:     db,
		opts:   opts,
		faker:  gofakeit.New(seed),
		now:    time.Now().UTC().Truncate(time.Second),
		taken:  make(map[string]bool),
		nextID: 1000,
	}
}

// PublicID returns a fresh 15-digit numeric public id.
func (f *Factory) PublicID() string {
	return f.unique("public_id", func() string {
		return fmt.Sprintf("%d%s", f.faker.Number(1, 9), f.faker.Numerify("##############"))
	})
}

// unique draws from gen until it yields a value not handed out before for kind.
func (f *Factory) unique(kind string, gen func() string) string {
	for {
		v := gen()
		if key := kind + ":" + v; !f.taken[key] {
			f.taken[key] = true
			return v
		}
	}
}

// HashPassword hashes plain with bcrypt unless the factory skips hashing.
func (f *Factory) HashPassword(plain string) (string, error) {
	if f.opts.SkipBcrypt {
		return plain, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// fileRef builds an upload reference that fits the 35-character column.
func fileRef(ext string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:28] + "." + ext
}

// pastTime returns a random moment within the configured history window.
func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	back := time.Duration(f.faker.Number(0, maxDays*24*60)) * time.Minute
	return f.now.Add(-back)
}

// after returns a random moment between t and now.
func (f *Factory) after(t time.Time) time.Time {
	span := int(f.now.Sub(t) / time.Minute)
	if span <= 0 {
		return t
	}
	return t.Add(time.Duration(f.faker.Number(1, span)) * time.Minute)
}

// BuildUser constructs a sample user without persisting it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.HashPassword(DefaultPassword)
	if err != nil {
		return nil, err
	}
	username := f.unique("username", func() string {
		return truncate(f.faker.Username(), 16) + fmt.Sprint(f.faker.Number(100, 999))
	})
	user := &models.User{
		PublicID:     f.PublicID(),
		Email:        f.unique("email", f.faker.Email),
		Username:     username,
		FullName:     f.faker.Name(),
		PasswordHash: hash,
		Bio:          f.faker.Sentence(10),
		JoinedDate:   f.pastTime(),
	}
	if f.faker.Bool() {
		user.ProfilePicture = fileRef("png")
	}
	for _, override := range overrides {
		override(user)
	}
	return user, nil
}

// CreateUser constructs and persists a sample user.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	user, err := f.BuildUser(overrides...)
	if err != nil {
		return nil, err
	}
	return user, f.persist(ctx, "user", user, &user.ID)
}

// CreatePost constructs and persists a sample post by owner.
func (f *Factory) CreatePost(ctx context.Context, owner *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		PublicID:        f.PublicID(),
		OwnerID:         owner.ID,
		CreatorPublicID: owner.PublicID,
		Content:         f.faker.Paragraph(1, 3, 12, " "),
		Status:          models.PostStatusPublished,
		Created:         f.pastTime(),
	}
	if f.faker.Float64Range(0, 1) < f.opts.ImageChance {
		post.ImageFile = fileRef("jpg")
	}
	for _, override := range overrides {
		override(post)
	}
	return post, f.persist(ctx, "post", post, &post.ID)
}

// CreateComment persists a comment by author on post, dated after the post.
func (f *Factory) CreateComment(ctx context.Context, author *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		CreatorPublicID: author.PublicID,
		PostID:          post.ID,
		Content:         f.faker.Sentence(f.faker.Number(3, 15)),
		Created:         f.after(post.Created),
	}
	for _, override := range overrides {
		override(comment)
	}
	return comment, f.persist(ctx, "comment", comment, &comment.ID)
}

// CreateReply persists a reply by author on comment, dated after the comment.
func (f *Factory) CreateReply(ctx context.Context, author *models.User, comment *models.Comment, overrides ...func(*models.Reply)) (*models.Reply, error) {
	reply := &models.Reply{
		CreatorPublicID: author.PublicID,
		CommentID:       comment.ID,
		Content:         f.faker.Sentence(f.faker.Number(3, 10)),
		Created:         f.after(comment.Created),
	}
	for _, override := range overrides {
		override(reply)
	}
	return reply, f.persist(ctx, "reply", reply, &reply.ID)
}

// LikePost records owner's like on post.
func (f *Factory) LikePost(ctx context.Context, owner *models.User, post *models.Post) error {
	like := &models.PostLike{PostID: post.ID, OwnerID: owner.ID, LikedOn: f.after(post.Created)}
	return f.persist(ctx, "post like", like, &like.ID)
}

// LikeComment records owner's like on comment.
func (f *Factory) LikeComment(ctx context.Context, owner *models.User, comment *models.Comment) error {
	like := &models.CommentLike{CommentID: comment.ID, OwnerID: owner.ID, LikedOn: f.after(comment.Created)}
	return f.persist(ctx, "comment like", like, &like.ID)
}

// LikeReply records owner's like on reply.
func (f *Factory) LikeReply(ctx context.Context, owner *models.User, reply *models.Reply) error {
	like := &models.ReplyLike{ReplyID: reply.ID, OwnerID: owner.ID, LikedOn: f.after(reply.Created)}
	return f.persist(ctx, "reply like", like, &like.ID)
}

// persist writes entity, or assigns a synthetic id in dry-run mode.
func (f *Factory) persist(ctx context.Context, kind string, entity interface{}, id *uint) error {
	if f.opts.DryRun {
		f.nextID++
		*id = f.nextID
		log.Debug().Str("kind", kind).Uint("id", *id).Msg("[dry-run] create")
		return nil
	}
	if err := f.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create %s: %w", kind, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
