package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"solo_adventure/internal/dice"
	"solo_adventure/internal/domain"
	"solo_adventure/internal/repository"
	apperrors "solo_adventure/pkg/errors"
	"solo_adventure/pkg/logger"
)

func testRoller() *dice.Roller {
	return dice.NewWithSource(rand.NewSource(1))
}

// noopLogger keeps test output quiet.
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}
func (noopLogger) Fatal(msg string, args ...any) {}
func (l noopLogger) With(args ...any) logger.Logger {
	return l
}

type fakeCharacterRepo struct {
	mu         sync.Mutex
	characters map[uuid.UUID]*domain.Character
}

func newFakeCharacterRepo() *fakeCharacterRepo {
	return &fakeCharacterRepo{characters: make(map[uuid.UUID]*domain.Character)}
}

func (r *fakeCharacterRepo) Create(ctx context.Context, c *domain.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *c
	r.characters[c.ID] = &stored
	return nil
}

func (r *fakeCharacterRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.characters[id]
	if !ok {
		return nil, apperrors.ErrCharacterNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCharacterRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Character
	for _, c := range r.characters {
		if c.UserID == userID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCharacterRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, c := range r.characters {
		if c.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCharacterRepo) Update(ctx context.Context, c *domain.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.characters[c.ID]; !ok {
		return apperrors.ErrCharacterNotFound
	}
	stored := *c
	r.characters[c.ID] = &stored
	return nil
}

func (r *fakeCharacterRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.characters[id]; !ok {
		return apperrors.ErrCharacterNotFound
	}
	delete(r.characters, id)
	return nil
}

type fakeCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[uuid.UUID]*domain.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: make(map[uuid.UUID]*domain.Campaign)}
}

func (r *fakeCampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.campaigns {
		if existing.CharacterID == c.CharacterID {
			return repository.ErrCampaignExists
		}
	}
	stored := *c
	stored.History = append([]domain.ChatMessage(nil), c.History...)
	r.campaigns[c.ID] = &stored
	return nil
}

func (r *fakeCampaignRepo) FindByCharacter(ctx context.Context, characterID uuid.UUID) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.campaigns {
		if c.CharacterID == characterID {
			return copyCampaign(c), nil
		}
	}
	return nil, apperrors.ErrCampaignNotFound
}

func (r *fakeCampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, apperrors.ErrCampaignNotFound
	}
	return copyCampaign(c), nil
}

func (r *fakeCampaignRepo) AppendMessage(ctx context.Context, campaignID uuid.UUID, message domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[campaignID]
	if !ok {
		return apperrors.ErrCampaignNotFound
	}
	c.History = append(c.History, message)
	c.UpdatedAt = time.Now()
	return nil
}

func (r *fakeCampaignRepo) UpdateCurrentScene(ctx context.Context, campaignID uuid.UUID, scene string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[campaignID]
	if !ok {
		return apperrors.ErrCampaignNotFound
	}
	c.CurrentScene = scene
	return nil
}

func copyCampaign(c *domain.Campaign) *domain.Campaign {
	copied := *c
	copied.History = append([]domain.ChatMessage(nil), c.History...)
	return &copied
}

type fakeTurnLock struct {
	mu        sync.Mutex
	held      map[uuid.UUID]bool
	denied    bool
	onAcquire func()
}

func newFakeTurnLock() *fakeTurnLock {
	return &fakeTurnLock{held: make(map[uuid.UUID]bool)}
}

func (l *fakeTurnLock) Acquire(ctx context.Context, campaignID uuid.UUID, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.denied || l.held[campaignID] {
		return false, nil
	}
	l.held[campaignID] = true
	if l.onAcquire != nil {
		l.onAcquire()
	}
	return true, nil
}

func (l *fakeTurnLock) Release(ctx context.Context, campaignID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, campaignID)
	return nil
}

// fakeNarrator returns canned text and counts invocations.
type fakeNarrator struct {
	mu            sync.Mutex
	openingCalls  int
	continueCalls int
	failNext      bool
	text          string
	lastHistory   []domain.ChatMessage
}

func (n *fakeNarrator) OpeningScene(ctx context.Context, character *domain.Character) GenerationResult {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.openingCalls++
	return n.result()
}

func (n *fakeNarrator) ContinueStory(ctx context.Context, input string, character *domain.Character, history []domain.ChatMessage) GenerationResult {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.continueCalls++
	n.lastHistory = append([]domain.ChatMessage(nil), history...)
	return n.result()
}

func (n *fakeNarrator) result() GenerationResult {
	if n.failNext {
		return GenerationResult{Success: false, Error: "model unavailable"}
	}
	text := n.text
	if text == "" {
		text = "The story continues."
	}
	return GenerationResult{Text: text, Success: true}
}
