package fakefilerepo

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jrsteele09/go-session-client/files"
	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/internal/memtable"
	"github.com/jrsteele09/go-session-client/storage"
	"github.com/jrsteele09/go-session-client/timestamp"
)

var _ files.Repo = (*FakeFileRepo)(nil)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// FakeFileRepo keeps metadata in memory and contents in a storage.Store
type FakeFileRepo struct {
	meta   *memtable.Table[int64, *files.File]
	blobs  storage.Store
	nextID atomic.Int64
}

func NewFakeFileRepo(blobs storage.Store) files.Repo {
	return &FakeFileRepo{meta: memtable.New[int64, *files.File](), blobs: blobs}
}

func blobKey(id int64) string {
	return fmt.Sprintf("file-%d", id)
}

func (r *FakeFileRepo) Create(f *files.File, content []byte) error {
	f.ID = r.nextID.Add(1)
	f.CreatedAt = timestamp.New(NowTimeFunc().UTC())
	f.URL = files.DownloadPath(f.ID)
	if err := r.blobs.Set(blobKey(f.ID), content); err != nil {
		return fmt.Errorf("[fakefilerepo Create] %w", err)
	}
	if !r.meta.Insert(f.ID, f) {
		return errors.ErrConflict
	}
	return nil
}

func (r *FakeFileRepo) Get(id, userID int64) (*files.File, error) {
	f, ok := r.meta.Get(id)
	if !ok || f.UserID != userID {
		return nil, errors.ErrNotFound
	}
	return f, nil
}

func (r *FakeFileRepo) Content(id, userID int64) ([]byte, error) {
	if _, err := r.Get(id, userID); err != nil {
		return nil, err
	}
	b, err := r.blobs.Get(blobKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errors.ErrNotFound
	}
	return b, err
}

func (r *FakeFileRepo) Delete(id, userID int64) error {
	if _, err := r.Get(id, userID); err != nil {
		return err
	}
	r.meta.Delete(id)
	return r.blobs.Remove(blobKey(id))
}

func (r *FakeFileRepo) List(userID int64, fileType files.Type) ([]*files.File, error) {
	return r.meta.Filter(func(f *files.File) bool {
		return f.UserID == userID && (fileType == "" || f.FileType == fileType)
	}), nil
}
