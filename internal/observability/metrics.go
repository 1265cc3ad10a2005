package observability

import "sync"

// Metrics provides basic in-memory counters per command invocation.
type Metrics struct {
	mu           sync.Mutex
	commandCount map[string]int64
	denialCount  map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		commandCount: make(map[string]int64),
		denialCount:  make(map[string]int64),
	}
}

// RecordCommand increments the counter for an executed command.
func (m *Metrics) RecordCommand(command string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commandCount[command]++
}

// RecordDenial increments the counter for a denied or failed command,
// keyed by the domain error code.
func (m *Metrics) RecordDenial(command, code string) {
	if m == nil {
		return
	}
	key := command + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denialCount[key]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() (commands, denials map[string]int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	commands = make(map[string]int64, len(m.commandCount))
	for k, v := range m.commandCount {
		commands[k] = v
	}
	denials = make(map[string]int64, len(m.denialCount))
	for k, v := range m.denialCount {
		denials[k] = v
	}
	return commands, denials
}
