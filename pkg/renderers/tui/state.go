package tui

// State holds the responses collected during a session, keyed by field id.
// It starts from a copy of the caller's prefill so the caller's map is never
// written.
type State struct {
	values map[string]any
}

// NewState seeds the state with prefilled responses.
func NewState(prefill map[string]any) *State {
	return &State{values: cloneValues(prefill)}
}

// Responses returns a copy of the collected responses.
func (s *State) Responses() map[string]any {
	if s == nil {
		return nil
	}
	return cloneValues(s.values)
}

// view exposes the live map to visibility evaluation, which only reads it.
func (s *State) view() map[string]any {
	return s.values
}

// Get returns the response for a field.
func (s *State) Get(id string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[id]
	return v, ok
}

// Set records a response. A nil value clears it.
func (s *State) Set(id string, value any) {
	if s == nil {
		return
	}
	if value == nil {
		delete(s.values, id)
		return
	}
	s.values[id] = value
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneValues(typed)
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}
