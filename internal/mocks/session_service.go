package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/domain/session"
	"github.com/phrazzld/scry-flashcards/internal/service"
)

// MockSessionService implements service.SessionService for testing.
// Each method calls its Fn field when set and otherwise returns the
// default values.
type MockSessionService struct {
	// Custom behavior functions
	CreateFn            func(ctx context.Context) (*service.Result, error)
	ViewFn              func(ctx context.Context, id uuid.UUID) (*service.View, error)
	DeleteFn            func(ctx context.Context, id uuid.UUID) error
	SearchFn            func(ctx context.Context, id uuid.UUID, rawWords string) (*service.Result, error)
	AddMoreFn           func(ctx context.Context, id uuid.UUID, rawWords string) (*service.Result, error)
	ToggleSelectFn      func(ctx context.Context, id uuid.UUID, assetID string, included bool) (*service.Result, error)
	SelectAllFn         func(ctx context.Context, id uuid.UUID, included bool) (*service.Result, error)
	ShuffleFn           func(ctx context.Context, id uuid.UUID) (*service.Result, error)
	ClearFn             func(ctx context.Context, id uuid.UUID) (*service.Result, error)
	GoHomeFn            func(ctx context.Context, id uuid.UUID) (*service.Result, error)
	SetGalleryViewFn    func(ctx context.Context, id uuid.UUID, view domain.GalleryView) (*service.Result, error)
	TurnPageFn          func(ctx context.Context, id uuid.UUID, dir domain.Direction) (*service.Result, error)
	StartPresentationFn func(ctx context.Context, id uuid.UUID, opts session.PresentOptions) (*service.Result, error)
	AdvanceFn           func(ctx context.Context, id uuid.UUID, dir domain.Direction) (*service.Result, error)
	SetAutoPlayFn       func(ctx context.Context, id uuid.UUID, enabled bool, intervalSeconds int) (*service.Result, error)
	ExitPresentationFn  func(ctx context.Context, id uuid.UUID) (*service.Result, error)
	StartMemoryGameFn   func(ctx context.Context, id uuid.UUID, pairs int) (*service.Result, error)
	FlipFn              func(ctx context.Context, id uuid.UUID, index int) (*service.Result, error)
	ReshuffleFn         func(ctx context.Context, id uuid.UUID) (*service.Result, error)
	ExitMemoryGameFn    func(ctx context.Context, id uuid.UUID) (*service.Result, error)

	// Default return values
	Result       *service.Result
	DefaultError error

	mu     sync.Mutex
	calls  []string
	closed bool
}

var _ service.SessionService = (*MockSessionService)(nil)

func (m *MockSessionService) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// Calls returns the names of the methods called so far, in order.
func (m *MockSessionService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Closed reports whether Close was called.
func (m *MockSessionService) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MockSessionService) viewOrNil() *service.View {
	if m.Result == nil {
		return nil
	}
	v := m.Result.View
	return &v
}

// Create implements the SessionService.Create method
func (m *MockSessionService) Create(ctx context.Context) (*service.Result, error) {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx)
	}
	return m.Result, m.DefaultError
}

// View implements the SessionService.View method
func (m *MockSessionService) View(ctx context.Context, id uuid.UUID) (*service.View, error) {
	m.record("View")
	if m.ViewFn != nil {
		return m.ViewFn(ctx, id)
	}
	return m.viewOrNil(), m.DefaultError
}

// Delete implements the SessionService.Delete method
func (m *MockSessionService) Delete(ctx context.Context, id uuid.UUID) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.DefaultError
}

// Search implements the SessionService.Search method
func (m *MockSessionService) Search(ctx context.Context, id uuid.UUID, rawWords string) (*service.Result, error) {
	m.record("Search")
	if m.SearchFn != nil {
		return m.SearchFn(ctx, id, rawWords)
	}
	return m.Result, m.DefaultError
}

// AddMore implements the SessionService.AddMore method
func (m *MockSessionService) AddMore(ctx context.Context, id uuid.UUID, rawWords string) (*service.Result, error) {
	m.record("AddMore")
	if m.AddMoreFn != nil {
		return m.AddMoreFn(ctx, id, rawWords)
	}
	return m.Result, m.DefaultError
}

// ToggleSelect implements the SessionService.ToggleSelect method
func (m *MockSessionService) ToggleSelect(ctx context.Context, id uuid.UUID, assetID string, included bool) (*service.Result, error) {
	m.record("ToggleSelect")
	if m.ToggleSelectFn != nil {
		return m.ToggleSelectFn(ctx, id, assetID, included)
	}
	return m.Result, m.DefaultError
}

// SelectAll implements the SessionService.SelectAll method
func (m *MockSessionService) SelectAll(ctx context.Context, id uuid.UUID, included bool) (*service.Result, error) {
	m.record("SelectAll")
	if m.SelectAllFn != nil {
		return m.SelectAllFn(ctx, id, included)
	}
	return m.Result, m.DefaultError
}

// Shuffle implements the SessionService.Shuffle method
func (m *MockSessionService) Shuffle(ctx context.Context, id uuid.UUID) (*service.Result, error) {
	m.record("Shuffle")
	if m.ShuffleFn != nil {
		return m.ShuffleFn(ctx, id)
	}
	return m.Result, m.DefaultError
}

// Clear implements the SessionService.Clear method
func (m *MockSessionService) Clear(ctx context.Context, id uuid.UUID) (*service.Result, error) {
	m.record("Clear")
	if m.ClearFn != nil {
		return m.ClearFn(ctx, id)
	}
	return m.Result, m.DefaultError
}

// GoHome implements the SessionService.GoHome method
func (m *MockSessionService) GoHome(ctx context.Context, id uuid.UUID) (*service.Result, error) {
	m.record("GoHome")
	if m.GoHomeFn != nil {
		return m.GoHomeFn(ctx, id)
	}
	return m.Result, m.DefaultError
}

// SetGalleryView implements the SessionService.SetGalleryView method
func (m *MockSessionService) SetGalleryView(ctx context.Context, id uuid.UUID, view domain.GalleryView) (*service.Result, error) {
	m.record("SetGalleryView")
	if m.SetGalleryViewFn != nil {
		return m.SetGalleryViewFn(ctx, id, view)
	}
	return m.Result, m.DefaultError
}

// TurnPage implements the SessionService.TurnPage method
func (m *MockSessionService) TurnPage(ctx context.Context, id uuid.UUID, dir domain.Direction) (*service.Result, error) {
	m.record("TurnPage")
	if m.TurnPageFn != nil {
		return m.TurnPageFn(ctx, id, dir)
	}
	return m.Result, m.DefaultError
}

// StartPresentation implements the SessionService.StartPresentation method
func (m *MockSessionService) StartPresentation(ctx context.Context, id uuid.UUID, opts session.PresentOptions) (*service.Result, error) {
	m.record("StartPresentation")
	if m.StartPresentationFn != nil {
		return m.StartPresentationFn(ctx, id, opts)
	}
	return m.Result, m.DefaultError
}

// Advance implements the SessionService.Advance method
func (m *MockSessionService) Advance(ctx context.Context, id uuid.UUID, dir domain.Direction) (*service.Result, error) {
	m.record("Advance")
	if m.AdvanceFn != nil {
		return m.AdvanceFn(ctx, id, dir)
	}
	return m.Result, m.DefaultError
}

// SetAutoPlay implements the SessionService.SetAutoPlay method
func (m *MockSessionService) SetAutoPlay(ctx context.Context, id uuid.UUID, enabled bool, intervalSeconds int) (*service.Result, error) {
	m.record("SetAutoPlay")
	if m.SetAutoPlayFn != nil {
		return m.SetAutoPlayFn(ctx, id, enabled, intervalSeconds)
	}
	return m.Result, m.DefaultError
}

// ExitPresentation implements the SessionService.ExitPresentation method
func (m *MockSessionService) ExitPresentation(ctx context.Context, id uuid.UUID) (*service.Result, error) {
	m.record("ExitPresentation")
	if m.ExitPresentationFn != nil {
		return m.ExitPresentationFn(ctx, id)
	}
	return m.Result, m.DefaultError
}

// StartMemoryGame implements the SessionService.StartMemoryGame method
func (m *MockSessionService) StartMemoryGame(ctx context.Context, id uuid.UUID, pairs int) (*service.Result, error) {
	m.record("StartMemoryGame")
	if m.StartMemoryGameFn != nil {
		return m.StartMemoryGameFn(ctx, id, pairs)
	}
	return m.Result, m.DefaultError
}

// Flip implements the SessionService.Flip method
func (m *MockSessionService) Flip(ctx context.Context, id uuid.UUID, index int) (*service.Result, error) {
	m.record("Flip")
	if m.FlipFn != nil {
		return m.FlipFn(ctx, id, index)
	}
	return m.Result, m.DefaultError
}

// Reshuffle implements the SessionService.Reshuffle method
func (m *MockSessionService) Reshuffle(ctx context.Context, id uuid.UUID) (*service.Result, error) {
	m.record("Reshuffle")
	if m.ReshuffleFn != nil {
		return m.ReshuffleFn(ctx, id)
	}
	return m.Result, m.DefaultError
}

// ExitMemoryGame implements the SessionService.ExitMemoryGame method
func (m *MockSessionService) ExitMemoryGame(ctx context.Context, id uuid.UUID) (*service.Result, error) {
	m.record("ExitMemoryGame")
	if m.ExitMemoryGameFn != nil {
		return m.ExitMemoryGameFn(ctx, id)
	}
	return m.Result, m.DefaultError
}

// Close implements the SessionService.Close method
func (m *MockSessionService) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}
