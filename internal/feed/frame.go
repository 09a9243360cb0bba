package feed

import (
	"math"
	"strconv"

	"github.com/ivlev/scrolly/internal/media"
	"github.com/ivlev/scrolly/internal/scope"
	"github.com/ivlev/scrolly/internal/syncer"
)

// Number is a float64 that encodes NaN and the infinities as JSON null.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// ClientMessage is sent by the page: a scroll or resize observation, or the
// state of its video element.
type ClientMessage struct {
	Type         string       `json:"type"` // scroll, container, resize, media
	Position     float64      `json:"position,omitempty"`
	ContainerTop float64      `json:"container_top,omitempty"`
	Height       float64      `json:"height,omitempty"`
	Media        *media.State `json:"media,omitempty"`
}

// Frame is sent to the page.
type Frame struct {
	Type          string          `json:"type"` // hello, scope, commands
	Session       string          `json:"session,omitempty"`
	DontUseSticky bool            `json:"dont_use_sticky,omitempty"`
	Scope         *Snapshot       `json:"scope,omitempty"`
	Sync          *SyncSnapshot   `json:"sync,omitempty"`
	Commands      []media.Command `json:"commands,omitempty"`
}

// Snapshot is the wire form of a scope plus the effect's progress value.
type Snapshot struct {
	SlideIndex     int      `json:"slide_index"`
	SlideCount     int      `json:"slide_count"`
	ScrollPosition Number   `json:"scroll_position"`
	ScrollLength   Number   `json:"scroll_length"`
	FromPrevSlide  Number   `json:"from_prev_slide"`
	ToNextSlide    Number   `json:"to_next_slide"`
	Active         bool     `json:"active"`
	Progress       Number   `json:"progress"`
	Checkpoints    []Number `json:"checkpoints"`
}

// SyncSnapshot is the wire form of the synchronizer state.
type SyncSnapshot struct {
	TargetFrame Number `json:"target_frame"`
	ActualFrame Number `json:"actual_frame"`
	Rate        Number `json:"rate"`
	Decision    string `json:"decision"`
	Rewinding   bool   `json:"rewinding"`
}

func newSnapshot(s scope.Scope, progress float64) *Snapshot {
	cps := s.Checkpoints()
	out := make([]Number, len(cps))
	for i, c := range cps {
		out[i] = Number(c)
	}
	return &Snapshot{
		SlideIndex:     s.SlideIndex,
		SlideCount:     s.SlideCount,
		ScrollPosition: Number(s.ScrollPosition),
		ScrollLength:   Number(s.ScrollLength),
		FromPrevSlide:  Number(s.FromPrevSlide),
		ToNextSlide:    Number(s.ToNextSlide),
		Active:         s.Active,
		Progress:       Number(progress),
		Checkpoints:    out,
	}
}

func newSyncSnapshot(st syncer.State) *SyncSnapshot {
	return &SyncSnapshot{
		TargetFrame: Number(st.TargetFrame),
		ActualFrame: Number(st.ActualFrame),
		Rate:        Number(st.Rate),
		Decision:    st.Decision.String(),
		Rewinding:   st.Rewinding,
	}
}
