package tui

import (
	"testing"
	"time"

	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/replay"
)

func newTestSource(t *testing.T, source string, fallback, loop bool) (*ReplaySource, *[]replay.Frame) {
	t.Helper()
	var frames []replay.Frame
	rs := NewReplaySource(ReplaySourceConfig{
		ID:       "test",
		Loader:   testLoader(),
		Request:  eventsource.Request{Source: source, Fallback: fallback},
		Replay:   testReplayConfig(loop),
		Observer: func(f replay.Frame) { frames = append(frames, f) },
	})
	return rs, &frames
}

func tick(rs *ReplaySource) DeckTickMsg {
	return DeckTickMsg{DeckID: "test", Gen: rs.Generation(), At: time.Now()}
}

func TestReplaySource_LoadArmsAndTicks(t *testing.T) {
	t.Parallel()

	rs, frames := newTestSource(t, writeEvents(t, threeEvents), false, true)
	msg := runLoad(t, rs.Start())
	if !rs.State().FetchInFlight {
		t.Fatal("FetchInFlight = false before the load is applied")
	}

	handled, next := rs.Update(msg)
	if !handled || next == nil {
		t.Fatalf("Update(load) = (%v, %v), want handled with a tick scheduled", handled, next != nil)
	}
	if len(*frames) != 1 || len((*frames)[0].Events) != 1 {
		t.Fatalf("frames after load = %d, want the arming frame with 1 event", len(*frames))
	}

	want := []int{2, 3, 1, 2}
	for i, w := range want {
		rs.Update(tick(rs))
		got := (*frames)[len(*frames)-1].State.Revealed
		if got != w {
			t.Fatalf("tick %d: revealed = %d, want %d", i+1, got, w)
		}
	}
}

func TestReplaySource_StaleMessagesIgnored(t *testing.T) {
	t.Parallel()

	rs, frames := newTestSource(t, writeEvents(t, threeEvents), false, false)
	first := runLoad(t, rs.Start())

	// A restart before the first load lands makes it stale.
	second := runLoad(t, rs.Start())
	if handled, cmd := rs.Update(first); !handled || cmd != nil {
		t.Fatalf("stale load: handled=%v cmd=%v, want handled and dropped", handled, cmd != nil)
	}
	if len(*frames) != 0 {
		t.Fatalf("stale load emitted %d frames, want 0", len(*frames))
	}

	rs.Update(second)
	staleTick := tick(rs)
	rs.Stop()
	if _, cmd := rs.Update(staleTick); cmd != nil {
		t.Fatal("tick after Stop rescheduled, want chain cleared")
	}
	if len(*frames) != 1 {
		t.Fatalf("frames = %d, want only the arming frame", len(*frames))
	}
}

func TestReplaySource_IgnoresOtherDecks(t *testing.T) {
	t.Parallel()

	rs, _ := newTestSource(t, writeEvents(t, threeEvents), false, false)
	if handled, _ := rs.Update(DeckTickMsg{DeckID: "other"}); handled {
		t.Fatal("handled a tick addressed to another deck")
	}
}

func TestReplaySource_FailureWithoutFallbackStaysUnarmed(t *testing.T) {
	t.Parallel()

	rs, frames := newTestSource(t, failingServer(t), false, false)
	_, cmd := rs.Update(runLoad(t, rs.Start()))
	if cmd != nil {
		t.Fatal("failed load scheduled a tick, want no timer")
	}
	if len(*frames) != 0 {
		t.Fatalf("frames = %d, want 0", len(*frames))
	}
	st := rs.State()
	if st.LastError != "HTTP 500" || st.ConsecutiveErrs != 1 || st.FetchInFlight {
		t.Fatalf("state = %+v, want LastError HTTP 500, one error, not in flight", st)
	}
}

func TestReplaySource_FailureWithFallbackArms(t *testing.T) {
	t.Parallel()

	rs, frames := newTestSource(t, failingServer(t), true, false)
	_, cmd := rs.Update(runLoad(t, rs.Start()))
	if cmd == nil {
		t.Fatal("fallback load scheduled no tick")
	}
	if rs.State().LastError == "" {
		t.Fatal("fallback load cleared the recorded error")
	}
	want := eventsource.FallbackCollection().Len()
	if got := (*frames)[0].State.Total; got != want {
		t.Fatalf("total = %d, want fallback size %d", got, want)
	}
}

func TestReplaySource_PauseHoldsPosition(t *testing.T) {
	t.Parallel()

	rs, frames := newTestSource(t, writeEvents(t, threeEvents), false, false)
	rs.Update(runLoad(t, rs.Start()))

	if !rs.TogglePause() {
		t.Fatal("TogglePause() = false, want paused")
	}
	if _, cmd := rs.Update(tick(rs)); cmd == nil {
		t.Fatal("paused tick dropped the chain, want it rescheduled")
	}
	if len(*frames) != 1 {
		t.Fatalf("paused tick emitted, frames = %d", len(*frames))
	}

	rs.TogglePause()
	rs.Update(tick(rs))
	if got := (*frames)[len(*frames)-1].State.Revealed; got != 2 {
		t.Fatalf("revealed after resume = %d, want 2", got)
	}
}

func TestReplaySource_InvalidConfig(t *testing.T) {
	t.Parallel()

	rs := NewReplaySource(ReplaySourceConfig{
		ID:     "bad",
		Replay: replay.Config{TickInterval: time.Second, StartAt: "25:99"},
	})
	if cmd := rs.Start(); cmd != nil {
		t.Fatal("Start with invalid config returned a load")
	}
	if rs.State().LastError == "" {
		t.Fatal("invalid config not recorded")
	}
}
