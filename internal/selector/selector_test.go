package selector

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"winfresh/internal/platform"
)

type fakeBackend struct {
	states   []platform.PointerState // one per Pointer call, last repeats
	stateIdx int
	calls    int
	ptrErrAt int // 1-based Pointer call that fails; 0 means never

	hit      platform.WindowID
	hitErr   error
	hitAt    [2]int
	topLevel map[platform.WindowID]platform.WindowID
}

func (f *fakeBackend) Pointer() (platform.PointerState, error) {
	f.calls++
	if f.ptrErrAt != 0 && f.calls >= f.ptrErrAt {
		return platform.PointerState{}, errors.New("pointer query failed")
	}
	st := f.states[f.stateIdx]
	if f.stateIdx < len(f.states)-1 {
		f.stateIdx++
	}
	return st, nil
}

func (f *fakeBackend) WindowAt(x, y int) (platform.WindowID, error) {
	f.hitAt = [2]int{x, y}
	if f.hitErr != nil {
		return platform.None, f.hitErr
	}
	return f.hit, nil
}

func (f *fakeBackend) TopLevel(id platform.WindowID) platform.WindowID {
	if top, ok := f.topLevel[id]; ok {
		return top
	}
	return id
}

func (f *fakeBackend) ActiveWindow() (platform.WindowID, error)       { return platform.None, nil }
func (f *fakeBackend) IsLive(platform.WindowID) bool                  { return true }
func (f *fakeBackend) Title(platform.WindowID) string                 { return "t" }
func (f *fakeBackend) IsMinimized(platform.WindowID) (bool, error)    { return false, nil }
func (f *fakeBackend) Restore(platform.WindowID) error                { return nil }
func (f *fakeBackend) Activate(platform.WindowID) error               { return nil }
func (f *fakeBackend) SetAttention(platform.WindowID, bool) error     { return nil }
func (f *fakeBackend) ModifierHeld([]string) (bool, error)            { return false, nil }
func (f *fakeBackend) SendKeys([]platform.KeyEvent) (int, error)      { return 0, nil }
func (f *fakeBackend) AttachInput(platform.WindowID) (platform.Attachment, error) {
	return nil, errors.New("unused")
}

func newTestSelector(backend *fakeBackend) *Selector {
	s := New(backend, nil)
	s.sleep = func(time.Duration) {}
	return s
}

func TestSelectByClick_ResolvesTopLevelAtReleasePosition(t *testing.T) {
	backend := &fakeBackend{
		states: []platform.PointerState{
			{X: 5, Y: 5, ButtonDown: false},
			{X: 10, Y: 12, ButtonDown: true},
			{X: 11, Y: 13, ButtonDown: true},
			{X: 20, Y: 30, ButtonDown: false},
		},
		hit:      99,
		topLevel: map[platform.WindowID]platform.WindowID{99: 100},
	}
	s := newTestSelector(backend)

	win, ok := s.SelectByClick()
	require.True(t, ok)
	require.Equal(t, platform.WindowID(100), win)
	require.Equal(t, [2]int{20, 30}, backend.hitAt, "hit-test uses the release position")
}

func TestSelectByClick_NoWindowAtClickFails(t *testing.T) {
	backend := &fakeBackend{
		states: []platform.PointerState{
			{ButtonDown: true},
			{X: 3, Y: 4, ButtonDown: false},
		},
		hitErr: errors.New("no window at position"),
	}
	s := newTestSelector(backend)

	_, ok := s.SelectByClick()
	require.False(t, ok)
}

func TestSelectByClick_PointerQueryFailureFails(t *testing.T) {
	backend := &fakeBackend{
		states:   []platform.PointerState{{ButtonDown: false}},
		ptrErrAt: 2,
	}
	s := newTestSelector(backend)

	_, ok := s.SelectByClick()
	require.False(t, ok)
}
