package albums

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shutterdesk/shutterdesk/internal/photos"
	"github.com/shutterdesk/shutterdesk/internal/platform/httpx"
	"github.com/shutterdesk/shutterdesk/internal/rbac"
)

func newAlbumService(repo *memRepo, notifier *recordingNotifier, now time.Time) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, stubClients{}, notifier, rbac.NewGuard(), logger, "http://studio.test", 720*time.Hour)
	svc.WithClock(func() time.Time { return now })
	return svc
}

func TestAddPhotosSetsMissingCover(t *testing.T) {
	repo := newMemRepo(&Album{ID: 1, Title: "Wedding", CreatedBy: 10})
	svc := newAlbumService(repo, &recordingNotifier{}, time.Now())

	if err := svc.AddPhotos(context.Background(), principal(10), 1, []int64{7, 8}); err != nil {
		t.Fatalf("add photos: %v", err)
	}
	cover := repo.albums[1].CoverPhotoID
	if cover == nil || *cover != 7 {
		t.Fatalf("cover = %v, want 7", cover)
	}
}

func TestAddPhotosKeepsExistingCover(t *testing.T) {
	existing := int64(3)
	repo := newMemRepo(&Album{ID: 1, Title: "Wedding", CreatedBy: 10, CoverPhotoID: &existing})
	svc := newAlbumService(repo, &recordingNotifier{}, time.Now())

	if err := svc.AddPhotos(context.Background(), principal(10), 1, []int64{7}); err != nil {
		t.Fatalf("add photos: %v", err)
	}
	if cover := repo.albums[1].CoverPhotoID; cover == nil || *cover != 3 {
		t.Fatalf("cover = %v, want 3", cover)
	}
}

func TestRemovePhotosRepairsCover(t *testing.T) {
	cover := int64(7)
	repo := newMemRepo(&Album{ID: 1, Title: "Wedding", CreatedBy: 10, CoverPhotoID: &cover})
	repo.photos[1] = []photos.Photo{{ID: 8}}
	svc := newAlbumService(repo, &recordingNotifier{}, time.Now())

	if err := svc.RemovePhotos(context.Background(), principal(10), 1, []int64{7}); err != nil {
		t.Fatalf("remove photos: %v", err)
	}
	got := repo.albums[1].CoverPhotoID
	if got == nil || *got != 8 {
		t.Fatalf("cover = %v, want 8", got)
	}
}

func TestRemovePhotosClearsCoverWhenEmpty(t *testing.T) {
	cover := int64(7)
	repo := newMemRepo(&Album{ID: 1, Title: "Wedding", CreatedBy: 10, CoverPhotoID: &cover})
	svc := newAlbumService(repo, &recordingNotifier{}, time.Now())

	if err := svc.RemovePhotos(context.Background(), principal(10), 1, []int64{7}); err != nil {
		t.Fatalf("remove photos: %v", err)
	}
	if repo.albums[1].CoverPhotoID != nil {
		t.Fatalf("cover = %v, want nil", repo.albums[1].CoverPhotoID)
	}
}

func TestNotifyClientReusesValidToken(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	token := "existing"
	expires := base.Add(time.Hour)
	clientID := int64(2)
	repo := newMemRepo(&Album{ID: 1, Title: "Wedding", CreatedBy: 10, ClientID: &clientID,
		ShareToken: &token, ShareTokenExpires: &expires})
	notifier := &recordingNotifier{}
	svc := newAlbumService(repo, notifier, base)

	if err := svc.NotifyClient(context.Background(), principal(10), 1); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(notifier.sent) != 1 || !strings.Contains(notifier.sent[0], "existing") {
		t.Fatalf("notifications = %v", notifier.sent)
	}
}

func TestNotifyClientGeneratesTokenWhenExpired(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	token := "stale"
	expires := base.Add(-time.Hour)
	clientID := int64(2)
	repo := newMemRepo(&Album{ID: 1, Title: "Wedding", CreatedBy: 10, ClientID: &clientID,
		ShareToken: &token, ShareTokenExpires: &expires})
	notifier := &recordingNotifier{}
	svc := newAlbumService(repo, notifier, base)

	if err := svc.NotifyClient(context.Background(), principal(10), 1); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("notifications = %v", notifier.sent)
	}
	if strings.Contains(notifier.sent[0], "stale") {
		t.Fatal("stale token sent to client")
	}
	if stored := repo.albums[1].ShareToken; stored == nil || *stored == "stale" {
		t.Fatalf("token not rotated: %v", stored)
	}
}

func TestNotifyClientWithoutClient(t *testing.T) {
	repo := newMemRepo(&Album{ID: 1, Title: "Wedding", CreatedBy: 10})
	svc := newAlbumService(repo, &recordingNotifier{}, time.Now())

	if err := svc.NotifyClient(context.Background(), principal(10), 1); !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestListAlbumsScopesByPermission(t *testing.T) {
	repo := newMemRepo(
		&Album{ID: 1, Title: "A", CreatedBy: 10},
		&Album{ID: 2, Title: "B", CreatedBy: 11},
	)
	svc := newAlbumService(repo, &recordingNotifier{}, time.Now())

	own, err := svc.ListAlbums(context.Background(), principal(10, rbac.PermPublishOwnContent))
	if err != nil {
		t.Fatalf("list own: %v", err)
	}
	if len(own) != 1 || own[0].ID != 1 {
		t.Fatalf("own albums = %v", own)
	}

	all, err := svc.ListAlbums(context.Background(), principal(99, rbac.PermManagePhotos))
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all albums = %v", all)
	}
}
