package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/models"
	"github.com/Skotchmaster/phone_market/internal/repo"
	"github.com/Skotchmaster/phone_market/pkg/db"
	"github.com/Skotchmaster/phone_market/pkg/search"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "market.db") + "?_pragma=busy_timeout(5000)"
	gdb, err := db.OpenSQLite(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	r := &repo.GormRepo{DB: gdb}
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func seedCategory(t *testing.T, r *repo.GormRepo, name string) models.Category {
	t.Helper()
	c := models.Category{Name: name, IsActive: true}
	require.NoError(t, r.CreateCategory(context.Background(), &c))
	return c
}

func seedProduct(t *testing.T, r *repo.GormRepo, categoryID uuid.UUID, mutate func(p *models.Product)) models.Product {
	t.Helper()
	p := models.Product{
		Name:        "Pixel 8",
		Brand:       "Google",
		Model:       "Pixel 8",
		Description: "Unlocked, barely used",
		Price:       1000,
		CategoryID:  categoryID,
		Condition:   domain.ConditionGood,
		Storage:     domain.Storage128GB,
		Images:      []string{"https://img.example.com/pixel-front.jpg", "https://img.example.com/pixel-back.jpg"},
		Stock:       5,
		IsActive:    true,
		IsApproved:  true,
	}
	if mutate != nil {
		mutate(&p)
	}
	require.NoError(t, r.CreateProduct(context.Background(), &p))
	return p
}

func seedUser(t *testing.T, r *repo.GormRepo, role string) models.User {
	t.Helper()
	u := models.User{
		Name:         "Test " + role,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	created, err := r.CreateUserIfNotExists(context.Background(), &u)
	require.NoError(t, err)
	require.True(t, created)
	return u
}

func actorOf(u models.User) domain.Actor {
	return domain.Actor{UserID: u.ID, Role: u.Role}
}

func productStock(t *testing.T, r *repo.GormRepo, id uuid.UUID) (stock, sold int) {
	t.Helper()
	p, err := r.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Stock, p.SoldCount
}

func ptr[T any](v T) *T { return &v }

type fakeIndex struct {
	mu      sync.Mutex
	docs    map[string]search.Document
	deleted []string
	hits    []string
	err     error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[string]search.Document{}}
}

func (f *fakeIndex) IndexProduct(_ context.Context, doc search.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

var errIndexDown = errors.New("index unavailable")
