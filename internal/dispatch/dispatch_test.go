package dispatch

import (
	"bytes"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"winfresh/internal/focus"
	"winfresh/internal/interval"
	"winfresh/internal/keys"
	"winfresh/internal/platform"
)

const target = platform.WindowID(5)

type fakeBackend struct {
	live    []bool // one per IsLive call, last repeats
	liveIdx int

	held    []bool // one per ModifierHeld call, last repeats
	heldIdx int

	active platform.WindowID
}

func (f *fakeBackend) IsLive(platform.WindowID) bool {
	if len(f.live) == 0 {
		return true
	}
	v := f.live[f.liveIdx]
	if f.liveIdx < len(f.live)-1 {
		f.liveIdx++
	}
	return v
}

func (f *fakeBackend) ModifierHeld([]string) (bool, error) {
	if len(f.held) == 0 {
		return false, nil
	}
	v := f.held[f.heldIdx]
	if f.heldIdx < len(f.held)-1 {
		f.heldIdx++
	}
	return v, nil
}

func (f *fakeBackend) ActiveWindow() (platform.WindowID, error)    { return f.active, nil }
func (f *fakeBackend) Title(platform.WindowID) string              { return "Target App" }
func (f *fakeBackend) IsMinimized(platform.WindowID) (bool, error) { return false, nil }
func (f *fakeBackend) Restore(platform.WindowID) error             { return nil }
func (f *fakeBackend) Activate(platform.WindowID) error            { return nil }
func (f *fakeBackend) SetAttention(platform.WindowID, bool) error  { return nil }
func (f *fakeBackend) Pointer() (platform.PointerState, error) {
	return platform.PointerState{}, nil
}
func (f *fakeBackend) WindowAt(int, int) (platform.WindowID, error) {
	return platform.None, errors.New("unused")
}
func (f *fakeBackend) TopLevel(id platform.WindowID) platform.WindowID { return id }
func (f *fakeBackend) SendKeys(events []platform.KeyEvent) (int, error) {
	return len(events), nil
}
func (f *fakeBackend) AttachInput(platform.WindowID) (platform.Attachment, error) {
	return nil, errors.New("attach refused")
}

type fakeInjector struct {
	calls int
}

func (f *fakeInjector) Inject(platform.WindowID) (int, error) {
	f.calls++
	return 4, nil
}

func newTestDispatcher(backend *fakeBackend, inj focus.Injector, console *bytes.Buffer) (*Dispatcher, *[]time.Duration) {
	var sleeps []time.Duration
	d := &Dispatcher{
		Backend:  backend,
		Arbiter:  focus.New(backend, nil),
		Injector: inj,
		Source:   interval.NewSource(nil),
		Bounds:   interval.Bounds{Min: 0.01, Max: 0.01},
		Combo:    keys.Refresh(),
		Console:  console,
		Sleep:    func(d time.Duration) { sleeps = append(sleeps, d) },
	}
	return d, &sleeps
}

func TestRun_TargetGoneBeforeFirstWaitTerminates(t *testing.T) {
	var console bytes.Buffer
	backend := &fakeBackend{live: []bool{false}}
	inj := &fakeInjector{}
	d, _ := newTestDispatcher(backend, inj, &console)

	d.Run(target)
	require.Zero(t, inj.calls)
	require.Contains(t, console.String(), "no longer exists")
}

func TestRun_TargetVanishingDuringWaitSkipsInjection(t *testing.T) {
	var console bytes.Buffer
	// Alive at the cycle start, gone at the re-check after the wait.
	backend := &fakeBackend{live: []bool{true, false}}
	inj := &fakeInjector{}
	d, _ := newTestDispatcher(backend, inj, &console)

	d.Run(target)
	require.Zero(t, inj.calls, "no injection once the target vanished")
	require.Contains(t, console.String(), "disappeared before sending")
}

func TestRun_HeldModifierCostsFixedPenaltyNotNewInterval(t *testing.T) {
	var console bytes.Buffer
	// Cycle 1: modifier held. Cycle 2: target gone, loop ends.
	backend := &fakeBackend{
		live: []bool{true, false},
		held: []bool{true},
	}
	inj := &fakeInjector{}
	d, sleeps := newTestDispatcher(backend, inj, &console)

	d.Run(target)
	require.Zero(t, inj.calls)
	require.Contains(t, console.String(), "modifier key is held")
	require.Contains(t, *sleeps, ModifierPenalty)
}

func TestRun_DeliversWhenTargetAliveAndUnobstructed(t *testing.T) {
	var console bytes.Buffer
	// One full cycle, then the target disappears.
	backend := &fakeBackend{
		live:   []bool{true, true, false},
		active: target, // already focused: the cheap arbitration path
	}
	inj := &fakeInjector{}
	d, sleeps := newTestDispatcher(backend, inj, &console)

	d.Run(target)
	require.Equal(t, 1, inj.calls)
	require.Contains(t, console.String(), "count: 1")
	require.Contains(t, *sleeps, PostDeliveryDelay)
}

func TestRun_FailedAcquisitionReportsSkippedCycle(t *testing.T) {
	var console bytes.Buffer
	// Focus is owned by another window and never moves; attach is
	// refused too, so acquisition fails and the cycle is skipped.
	backend := &fakeBackend{
		live:   []bool{true, true, false},
		active: platform.WindowID(9),
	}
	inj := &fakeInjector{}
	d, _ := newTestDispatcher(backend, inj, &console)

	d.Run(target)
	require.Zero(t, inj.calls)
	require.Contains(t, console.String(), "Keystroke skipped this cycle")
}
