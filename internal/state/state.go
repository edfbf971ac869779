package state

import "sync"

// Phase is a step of the title rendering pipeline.
type Phase int

const (
	START Phase = iota
	LOAD_BACKGROUND
	LOAD_FONT
	WRAP
	DRAW
	ENCODE
	SAVE
	DONE
	FAILED
)

var phaseNames = map[Phase]string{
	START:           "start",
	LOAD_BACKGROUND: "load-background",
	LOAD_FONT:       "load-font",
	WRAP:            "wrap",
	DRAW:            "draw",
	ENCODE:          "encode",
	SAVE:            "save",
	DONE:            "done",
	FAILED:          "failed",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no transition may follow p.
func (p Phase) Terminal() bool { return p == DONE || p == FAILED }

type RunInfo struct {
	Title  string
	Output string
	Lines  []string
	Draws  int
	Err    string
}

type State struct {
	Phase   Phase
	History []Phase
	Run     RunInfo
}

type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Phase: START, History: []Phase{START}}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	snap := store.state
	snap.History = append([]Phase(nil), store.state.History...)
	snap.Run.Lines = append([]string(nil), store.state.Run.Lines...)
	return snap
}

// SetPhase moves to phase. Once a terminal phase is reached further transitions are ignored.
func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.Phase.Terminal() {
		return
	}
	store.state.Phase = phase
	store.state.History = append(store.state.History, phase)
}

// Fail records err and moves to FAILED.
// The phase that was active when the failure happened stays last in History before FAILED.
func (store *Store) Fail(err error) {
	store.mu.Lock()
	if err != nil {
		store.state.Run.Err = err.Error()
	}
	store.mu.Unlock()
	store.SetPhase(FAILED)
}

func (store *Store) UpdateRun(run RunInfo) {
	store.mu.Lock()
	store.state.Run = run
	store.mu.Unlock()
}

func (store *Store) SetLines(lines []string) {
	store.mu.Lock()
	store.state.Run.Lines = lines
	store.mu.Unlock()
}

func (store *Store) AddDraws(n int) {
	store.mu.Lock()
	store.state.Run.Draws += n
	store.mu.Unlock()
}
