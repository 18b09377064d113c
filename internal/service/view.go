package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/domain/memory"
	"github.com/phrazzld/scry-flashcards/internal/domain/session"
)

// NoticeNoInput marks a search or add-more call whose word list was empty.
const NoticeNoInput = "no_input"

// CardView is one card as handed to the renderer.
type CardView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Selected     bool   `json:"selected"`
}

// GalleryView is the visible slice of the card list.
type GalleryView struct {
	View  domain.GalleryView `json:"view"`
	Page  int                `json:"page"`
	Pages int                `json:"pages"`
	Cards []CardView         `json:"cards"`
}

// PresentationView is the current presentation group.
type PresentationView struct {
	Cursor          int        `json:"cursor"`
	GroupSize       int        `json:"group_size"`
	Total           int        `json:"total"`
	AutoPlay        bool       `json:"auto_play"`
	IntervalSeconds int        `json:"interval_seconds"`
	Cards           []CardView `json:"cards"`
}

// MemoryCardView is one slot of the memory deck. Card is only set while
// the slot is face-up or matched.
type MemoryCardView struct {
	Index   int       `json:"index"`
	FaceUp  bool      `json:"face_up"`
	Matched bool      `json:"matched"`
	Card    *CardView `json:"card,omitempty"`
}

// MemoryView is the memory game board.
type MemoryView struct {
	Pairs        int              `json:"pairs"`
	MatchedPairs int              `json:"matched_pairs"`
	Tries        int              `json:"tries"`
	Complete     bool             `json:"complete"`
	Cards        []MemoryCardView `json:"cards"`
}

// View is a read-only snapshot of a session.
type View struct {
	SessionID     uuid.UUID         `json:"session_id"`
	Mode          domain.Mode       `json:"mode"`
	Cards         []CardView        `json:"cards"`
	SelectedCount int               `json:"selected_count"`
	Gallery       *GalleryView      `json:"gallery,omitempty"`
	Presentation  *PresentationView `json:"presentation,omitempty"`
	Memory        *MemoryView       `json:"memory,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Change describes what a command did.
type Change struct {
	Kind    string             `json:"kind"`
	Notice  string             `json:"notice,omitempty"`
	Added   int                `json:"added,omitempty"`
	Changed bool               `json:"changed,omitempty"`
	Flip    *memory.FlipResult `json:"flip,omitempty"`
}

// Result pairs the session snapshot after a command with its change.
type Result struct {
	View   View   `json:"view"`
	Change Change `json:"change"`
}

type thumbnailer func(assetID string) string

func cardView(r domain.AssetRecord, st *session.State, thumb thumbnailer) CardView {
	return CardView{
		ID:           r.ID,
		Name:         r.NormalizedName,
		DisplayName:  r.DisplayName,
		ThumbnailURL: thumb(r.ID),
		Selected:     st.IsSelected(r.ID),
	}
}

func cardViews(records []domain.AssetRecord, st *session.State, thumb thumbnailer) []CardView {
	out := make([]CardView, len(records))
	for i, r := range records {
		out[i] = cardView(r, st, thumb)
	}
	return out
}

func buildView(id uuid.UUID, st *session.State, thumb thumbnailer) View {
	v := View{
		SessionID:     id,
		Mode:          st.Mode(),
		Cards:         cardViews(st.Cards(), st, thumb),
		SelectedCount: len(st.Selected()),
		UpdatedAt:     time.Now().UTC(),
	}

	switch st.Mode() {
	case domain.ModeGallery:
		cards, page, pages := st.GalleryPage()
		v.Gallery = &GalleryView{
			View:  st.GalleryView(),
			Page:  page,
			Pages: pages,
			Cards: cardViews(cards, st, thumb),
		}
	case domain.ModePresent:
		p := st.Presenter()
		v.Presentation = &PresentationView{
			Cursor:          p.Cursor(),
			GroupSize:       p.GroupSize(),
			Total:           p.Len(),
			AutoPlay:        p.AutoPlay(),
			IntervalSeconds: p.IntervalSeconds(),
			Cards:           cardViews(p.CurrentView(), st, thumb),
		}
	case domain.ModeMemoryGame:
		v.Memory = memoryView(st.Game(), st, thumb)
	}
	return v
}

func memoryView(g *memory.Game, st *session.State, thumb thumbnailer) *MemoryView {
	faceUp := make(map[int]bool)
	for _, i := range g.Flipped() {
		faceUp[i] = true
	}

	deck := g.Deck()
	cards := make([]MemoryCardView, len(deck))
	for i, r := range deck {
		slot := MemoryCardView{Index: i, FaceUp: faceUp[i], Matched: g.IsMatched(i)}
		if slot.FaceUp || slot.Matched {
			cv := cardView(r, st, thumb)
			slot.Card = &cv
		}
		cards[i] = slot
	}

	return &MemoryView{
		Pairs:        g.Pairs(),
		MatchedPairs: g.MatchedPairs(),
		Tries:        g.Tries(),
		Complete:     g.IsComplete(),
		Cards:        cards,
	}
}
