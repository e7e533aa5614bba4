package tracing

import "github.com/stretchr/testify/mock"

// mockCollector is a testify mock for the Collector interface.
type mockCollector struct {
	mock.Mock
}

var _ Collector = (*mockCollector)(nil)

func (m *mockCollector) RegisterCallsite(meta *Metadata) Interest {
	return m.Called(meta).Get(0).(Interest)
}

func (m *mockCollector) Enabled(meta *Metadata) bool {
	return m.Called(meta).Bool(0)
}

func (m *mockCollector) NewSpan(attrs *Attributes) ID {
	return m.Called(attrs).Get(0).(ID)
}

func (m *mockCollector) Record(id ID, r *Record) {
	m.Called(id, r)
}

func (m *mockCollector) RecordFollowsFrom(span, follows ID) {
	m.Called(span, follows)
}

func (m *mockCollector) Event(e *Event) {
	m.Called(e)
}

func (m *mockCollector) Enter(id ID) {
	m.Called(id)
}

func (m *mockCollector) Exit(id ID) {
	m.Called(id)
}

func (m *mockCollector) CloneSpan(id ID) ID {
	return m.Called(id).Get(0).(ID)
}

func (m *mockCollector) TryClose(id ID) bool {
	return m.Called(id).Bool(0)
}

// setDefaultForTest forcibly replaces the global default collector for the
// duration of a test, bypassing the set-once guard.
func setDefaultForTest(c Collector) (restore func()) {
	previous := globalDefault.Load()
	globalDefault.Store(&collectorBox{collector: c})
	RebuildInterest()

	return func() {
		globalDefault.Store(previous)
		RebuildInterest()
	}
}
