package seed

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"konishi/internal/database"
	"konishi/internal/featureflags"
	"konishi/internal/models"
	"konishi/internal/repository"
	"konishi/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.NumUsers = 6
	opts.NumPosts = 10
	opts.MaxCommentsPerPost = 3
	opts.MaxRepliesPerComment = 3
	opts.LikeChance = 0.5
	opts.Seed = 42
	opts.SkipBcrypt = true
	return opts
}

func count(t *testing.T, db *gorm.DB, model interface{}) int {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return int(n)
}

var publicIDPattern = regexp.MustCompile(`^[1-9][0-9]{14}$`)

func TestFactory_PublicIDs(t *testing.T) {
	f := NewFactory(nil, Options{Seed: 7})
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id := f.PublicID()
		require.Regexp(t, publicIDPattern, id)
		require.Len(t, id, models.PublicIDLength)
		require.False(t, seen[id], "duplicate public id %s", id)
		seen[id] = true
	}
}

func TestFactory_HashPassword(t *testing.T) {
	hash, err := NewFactory(nil, Options{}).HashPassword(DefaultPassword)
	require.NoError(t, err)
	assert.NotEqual(t, DefaultPassword, hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(DefaultPassword)))

	plain, err := NewFactory(nil, Options{SkipBcrypt: true}).HashPassword(DefaultPassword)
	require.NoError(t, err)
	assert.Equal(t, DefaultPassword, plain)
}

func TestFactory_FileRefsFitColumn(t *testing.T) {
	ref := fileRef("jpg")
	assert.LessOrEqual(t, len(ref), 35)
	assert.True(t, strings.HasSuffix(ref, ".jpg"))
	assert.NotContains(t, ref, "/")
}

func TestSeeder_Run(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()

	sum, err := NewSeeder(db, testOptions()).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 6, sum.Users)
	assert.Equal(t, 10, sum.Posts)
	assert.Equal(t, sum.Users, count(t, db, &models.User{}))
	assert.Equal(t, sum.Posts, count(t, db, &models.Post{}))
	assert.Equal(t, sum.Comments, count(t, db, &models.Comment{}))
	assert.Equal(t, sum.Replies, count(t, db, &models.Reply{}))
	assert.Equal(t, sum.Likes,
		count(t, db, &models.PostLike{})+count(t, db, &models.CommentLike{})+count(t, db, &models.ReplyLike{}))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	for _, u := range users {
		assert.Regexp(t, publicIDPattern, u.PublicID)
		assert.LessOrEqual(t, len(u.Username), 20)
	}

	var comments []models.Comment
	require.NoError(t, db.Find(&comments).Error)
	for _, c := range comments {
		var post models.Post
		require.NoError(t, db.First(&post, c.PostID).Error)
		assert.False(t, c.Created.Before(post.Created), "comments are dated after their post")
	}
}

func TestSeeder_RunRequiresUsers(t *testing.T) {
	_, err := NewSeeder(nil, Options{DryRun: true}).Run(context.Background())
	assert.Error(t, err)
}

func TestSeeder_DryRunAssignsIDs(t *testing.T) {
	opts := testOptions()
	opts.DryRun = true

	s := NewSeeder(nil, opts)
	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, sum.Users)

	u, err := s.Factory().CreateUser(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NoError(t, s.ClearAll(context.Background()))
}

func TestSeeder_ClearAll(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()
	s := NewSeeder(db, testOptions())

	_, err := s.Run(ctx)
	require.NoError(t, err)
	require.NoError(t, s.ClearAll(ctx))

	for _, m := range database.PersistentModels() {
		assert.Zero(t, count(t, db, m), "%T not cleared", m)
	}
}

func TestApplyFixtures(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()

	fx, err := LoadFixturesFile("testdata/fixtures.yaml")
	require.NoError(t, err)

	sum, err := NewSeeder(db, testOptions()).ApplyFixtures(ctx, fx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Users: 3, Posts: 3, Comments: 2, Replies: 3, Likes: 4}, *sum)

	alice, err := repository.NewUserRepository(db).GetByPublicID(ctx, "100000000000001")
	require.NoError(t, err)
	assert.Equal(t, "alice", alice.Username)
	assert.Equal(t, "alice.png", alice.ProfilePicture)

	var carol models.User
	require.NoError(t, db.Where("username = ?", "carol").First(&carol).Error)
	assert.Regexp(t, publicIDPattern, carol.PublicID)

	// The newest touch wins: carol's post was commented on last, bob's post
	// has no comments, and alice's post only has older activity.
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	feed := service.NewFeedService(posts, comments, featureflags.NewManager(""))
	ids, err := feed.GetActivity(ctx)
	require.NoError(t, err)

	var ordered []models.Post
	require.NoError(t, db.Where("id IN ?", ids).Find(&ordered).Error)
	byID := map[uint]string{}
	for _, p := range ordered {
		byID[p.ID] = p.CreatorPublicID
	}
	require.Len(t, ids, 3)
	assert.Equal(t, carol.PublicID, byID[ids[0]])
	assert.Equal(t, "100000000000002", byID[ids[1]])
	assert.Equal(t, alice.PublicID, byID[ids[2]])
}

func TestApplyFixtures_UnknownUser(t *testing.T) {
	db := setupSQLiteDB(t)

	fx, err := LoadFixtures(strings.NewReader(`
users:
  - username: dave
posts:
  - author: erin
    content: hi
`))
	require.NoError(t, err)

	_, err = NewSeeder(db, testOptions()).ApplyFixtures(context.Background(), fx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown user "erin"`)
	assert.Zero(t, count(t, db, &models.User{}), "failed fixtures roll back")
}

func TestLoadFixtures_RejectsUnknownFields(t *testing.T) {
	_, err := LoadFixtures(strings.NewReader("users:\n  - username: dave\n    nickname: d\n"))
	assert.Error(t, err)
}
