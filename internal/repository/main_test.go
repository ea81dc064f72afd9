package repository

import (
	"context"
	"testing"
	"time"

	"konishi/internal/database"
	"konishi/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLiteDB returns a migrated in-memory store. A single connection keeps
// every query on the same in-memory database.
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

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}

func seedUser(t *testing.T, db *gorm.DB, publicID string) *models.User {
	t.Helper()
	user := &models.User{
		PublicID:     publicID,
		Email:        publicID + "@example.com",
		Username:     "u" + publicID,
		FullName:     "User " + publicID,
		PasswordHash: "x",
		JoinedDate:   baseTime,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func seedPost(t *testing.T, db *gorm.DB, owner *models.User, publicID string, created time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		PublicID:        publicID,
		OwnerID:         owner.ID,
		CreatorPublicID: owner.PublicID,
		Content:         "post " + publicID,
		Status:          models.PostStatusPublished,
		Created:         created,
	}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post))
	return post
}

func seedComment(t *testing.T, db *gorm.DB, author *models.User, postID uint, created time.Time) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		CreatorPublicID: author.PublicID,
		PostID:          postID,
		Content:         "comment",
		Created:         created,
	}
	require.NoError(t, NewCommentRepository(db).Create(context.Background(), comment))
	return comment
}

func seedReply(t *testing.T, db *gorm.DB, author *models.User, commentID uint, created time.Time) *models.Reply {
	t.Helper()
	reply := &models.Reply{
		CreatorPublicID: author.PublicID,
		CommentID:       commentID,
		Content:         "reply",
		Created:         created,
	}
	require.NoError(t, NewReplyRepository(db).Create(context.Background(), reply))
	return reply
}
