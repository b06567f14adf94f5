package inject

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"winfresh/internal/keys"
	"winfresh/internal/platform"
)

const target = platform.WindowID(5)

type fakeBackend struct {
	live      bool
	minimized bool
	active    platform.WindowID

	accept  int // events accepted per SendKeys call; -1 means all
	sendErr error

	restored bool
	sent     [][]platform.KeyEvent
}

func (f *fakeBackend) ActiveWindow() (platform.WindowID, error) { return f.active, nil }
func (f *fakeBackend) IsLive(platform.WindowID) bool            { return f.live }
func (f *fakeBackend) Title(platform.WindowID) string           { return "t" }

func (f *fakeBackend) IsMinimized(platform.WindowID) (bool, error) {
	return f.minimized, nil
}

func (f *fakeBackend) Restore(platform.WindowID) error {
	f.restored = true
	f.minimized = false
	return nil
}

func (f *fakeBackend) Activate(platform.WindowID) error           { return nil }
func (f *fakeBackend) SetAttention(platform.WindowID, bool) error { return nil }

func (f *fakeBackend) AttachInput(platform.WindowID) (platform.Attachment, error) {
	return nil, errors.New("unused")
}

func (f *fakeBackend) Pointer() (platform.PointerState, error) {
	return platform.PointerState{}, nil
}

func (f *fakeBackend) WindowAt(int, int) (platform.WindowID, error) {
	return platform.None, errors.New("unused")
}

func (f *fakeBackend) TopLevel(id platform.WindowID) platform.WindowID { return id }
func (f *fakeBackend) ModifierHeld([]string) (bool, error)             { return false, nil }

func (f *fakeBackend) SendKeys(events []platform.KeyEvent) (int, error) {
	f.sent = append(f.sent, events)
	if f.sendErr != nil {
		return f.accept, f.sendErr
	}
	if f.accept < 0 {
		return len(events), nil
	}
	return f.accept, nil
}

func newTestInjector(backend *fakeBackend) *Injector {
	i := New(backend, keys.Refresh(), nil)
	i.sleep = func(time.Duration) {}
	return i
}

func TestInject_DeliversFullComboInOrder(t *testing.T) {
	backend := &fakeBackend{live: true, active: target, accept: -1}
	inj := newTestInjector(backend)

	n, err := inj.Inject(target)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	require.Len(t, backend.sent, 1)
	require.Equal(t, []platform.KeyEvent{
		{Key: "Control_L", Press: true},
		{Key: "F5", Press: true},
		{Key: "F5", Press: false},
		{Key: "Control_L", Press: false},
	}, backend.sent[0])
}

func TestInject_GoneTargetSendsNothing(t *testing.T) {
	backend := &fakeBackend{live: false}
	inj := newTestInjector(backend)

	_, err := inj.Inject(target)
	require.Error(t, err)
	require.Empty(t, backend.sent)
}

func TestInject_MinimizedTargetRestoredAndReverified(t *testing.T) {
	backend := &fakeBackend{live: true, minimized: true, active: target, accept: -1}
	inj := newTestInjector(backend)

	n, err := inj.Inject(target)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.True(t, backend.restored)
}

func TestInject_AbortsWhenForegroundLostAfterRestore(t *testing.T) {
	other := platform.WindowID(9)
	backend := &fakeBackend{live: true, minimized: true, active: other}
	inj := newTestInjector(backend)

	_, err := inj.Inject(target)
	require.Error(t, err)
	require.True(t, backend.restored)
	require.Empty(t, backend.sent, "no injection after losing the foreground")
}

func TestInject_PartialDeliveryReportedNotRetried(t *testing.T) {
	backend := &fakeBackend{live: true, active: target, accept: 2}
	inj := newTestInjector(backend)

	n, err := inj.Inject(target)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, backend.sent, 1, "partial delivery is not retried within the cycle")
}

func TestInject_SubmissionErrorPropagates(t *testing.T) {
	backend := &fakeBackend{live: true, active: target, accept: 0,
		sendErr: errors.New("server rejected input")}
	inj := newTestInjector(backend)

	n, err := inj.Inject(target)
	require.Error(t, err)
	require.Equal(t, 0, n)
}
