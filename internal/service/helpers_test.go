package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Skotchmaster/product_api/internal/es"
	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/repo"
	"github.com/Skotchmaster/product_api/internal/testutil"
)

type sentEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []sentEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, sentEvent{Topic: topic, Key: key, Event: event.(map[string]any)})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

type recordingIndex struct {
	es.Nop
	indexed []uint
	deleted []uint
}

func (x *recordingIndex) IndexProduct(_ context.Context, p *models.Product) error {
	x.indexed = append(x.indexed, p.ID)
	return nil
}

func (x *recordingIndex) DeleteProduct(_ context.Context, id uint) error {
	x.deleted = append(x.deleted, id)
	return nil
}

type testEnv struct {
	Repo    *repo.GormRepo
	Events  *recordingPublisher
	Index   *recordingIndex
	Auth    *AuthService
	Tokens  *TokenService
	Catalog *CatalogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	r := repo.New(testutil.NewDB(t))
	events := &recordingPublisher{}
	idx := &recordingIndex{}
	return &testEnv{
		Repo:    r,
		Events:  events,
		Index:   idx,
		Auth:    &AuthService{Repo: r, Events: events},
		Tokens:  &TokenService{Repo: r, Secret: []byte("test-token-secret"), Events: events},
		Catalog: &CatalogService{Repo: r, Events: events, Index: idx},
	}
}
