package service

import (
	"context"
	"testing"

	"lumen/internal/cache"
	"lumen/internal/models"
	"lumen/internal/notifications"
	"lumen/internal/repository"
	"lumen/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db    *gorm.DB
	repos *repository.Repositories
	blobs *testutil.MemoryBlobStore
	mr    *miniredis.Miniredis
	rdb   *redis.Client

	identity      *IdentityService
	relationships *RelationshipService
	posts         *PostService
	feed          *FeedService
	users         *UserService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = rdb.Close()
	})

	repos := repository.New(db)
	blobs := testutil.NewMemoryBlobStore()
	notifier := notifications.NewNotifier(rdb)
	return &testEnv{
		db:            db,
		repos:         repos,
		blobs:         blobs,
		mr:            mr,
		rdb:           rdb,
		identity:      NewIdentityService(repos),
		relationships: NewRelationshipService(repos, notifier),
		posts:         NewPostService(repos, blobs, notifier),
		feed:          NewFeedService(repos, 0),
		users:         NewUserService(repos, notifier),
		notifications: NewNotificationService(repos),
	}
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	return testutil.CreateUser(t, e.db, username)
}

// post creates a post through the service, as a client would after uploading.
func (e *testEnv) post(t *testing.T, owner *models.User, caption string) *models.Post {
	t.Helper()
	target, err := e.blobs.GenerateUploadURL(context.Background())
	require.NoError(t, err)
	e.blobs.Upload(target.StorageID)
	p, err := e.posts.CreatePost(context.Background(), owner, CreatePostInput{StorageID: target.StorageID, Caption: caption})
	require.NoError(t, err)
	return p
}

func (e *testEnv) reloadUser(t *testing.T, id uint) *models.User {
	t.Helper()
	return testutil.ReloadUser(t, e.db, id)
}

func (e *testEnv) reloadPost(t *testing.T, id uint) *models.Post {
	t.Helper()
	return testutil.ReloadPost(t, e.db, id)
}

func (e *testEnv) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func (e *testEnv) notificationsFor(t *testing.T, receiverID uint) []models.Notification {
	t.Helper()
	var out []models.Notification
	require.NoError(t, e.db.Where("receiver_id = ?", receiverID).Order("id").Find(&out).Error)
	return out
}
