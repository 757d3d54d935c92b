package service

import (
	"sync"

	"github.com/liliang-cn/buildsense/internal/domain"
)

// workspaceState is the in-memory part of a workspace. Analysis results and
// uploads never leave the process.
type workspaceState struct {
	analysis domain.RequestState
	chat     domain.RequestState
	result   *domain.DetailedAnalysis
	ref      *domain.DocumentRef
	upload   *domain.Document
	// generation changes with every selection so late results can be dropped
	generation uint64
}

// stateStore guards per-workspace request states
type stateStore struct {
	mu       sync.Mutex
	states   map[string]*workspaceState
	analyses int
	failures int
}

func newStateStore() *stateStore {
	return &stateStore{states: make(map[string]*workspaceState)}
}

// get returns the state of a workspace, creating it on first use. Caller holds mu.
func (s *stateStore) get(id string) *workspaceState {
	st, ok := s.states[id]
	if !ok {
		st = &workspaceState{
			analysis: domain.RequestStateIdle,
			chat:     domain.RequestStateIdle,
		}
		s.states[id] = st
	}
	return st
}

// apply fills the in-memory fields of a workspace snapshot
func (s *stateStore) apply(ws *domain.Workspace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(ws.ID)
	if st.ref == nil && ws.Selection != nil {
		ref := *ws.Selection
		st.ref = &ref
	}
	if st.ref != nil {
		ref := *st.ref
		ws.Selection = &ref
	}
	ws.AnalysisState = st.analysis
	ws.ChatState = st.chat
	ws.Result = st.result
}

// selectDocument discards the previous result and installs a new selection.
// upload is nil for remote references.
func (s *stateStore) selectDocument(id string, ref domain.DocumentRef, upload *domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(id)
	st.generation++
	st.result = nil
	st.ref = &ref
	st.upload = upload
	if st.analysis != domain.RequestStatePending {
		st.analysis = domain.RequestStateIdle
	}
}

// analysisInput is the selection an analysis run works on
type analysisInput struct {
	ref        domain.DocumentRef
	upload     *domain.Document
	generation uint64
}

// beginAnalysis marks the analysis surface pending and snapshots the selection
func (s *stateStore) beginAnalysis(id string) (*analysisInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(id)
	if st.ref == nil {
		return nil, domain.ErrNoDocument
	}
	if st.analysis == domain.RequestStatePending {
		return nil, domain.ErrRequestInFlight
	}
	st.analysis = domain.RequestStatePending
	return &analysisInput{
		ref:        *st.ref,
		upload:     st.upload,
		generation: st.generation,
	}, nil
}

// finishAnalysis records the outcome of an analysis run. A result produced for
// a superseded selection is dropped. It reports whether the result was kept.
func (s *stateStore) finishAnalysis(id string, generation uint64, result *domain.DetailedAnalysis, failed bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(id)
	s.analyses++
	if failed {
		s.failures++
		st.analysis = domain.RequestStateFailed
		return false
	}
	if st.generation != generation {
		st.analysis = domain.RequestStateIdle
		return false
	}
	st.analysis = domain.RequestStateDone
	st.result = result
	return true
}

func (s *stateStore) beginChat(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(id)
	if st.chat == domain.RequestStatePending {
		return domain.ErrRequestInFlight
	}
	st.chat = domain.RequestStatePending
	return nil
}

func (s *stateStore) finishChat(id string, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(id)
	if failed {
		st.chat = domain.RequestStateFailed
		return
	}
	st.chat = domain.RequestStateDone
}

func (s *stateStore) counters() (analyses, failures int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyses, s.failures
}
