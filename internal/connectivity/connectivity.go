// Package connectivity exposes the network reachability signal features
// consult before invoking the reservation workflow. The core only consumes
// the signal; producing it is collaborator territory.
package connectivity

import (
	"net"
	"sync"
	"time"
)

// Signal is a boolean reachability stream.
type Signal interface {
	Connected() bool
	// Watch reports changes; the current value is delivered first.
	Watch() (<-chan bool, func())
}

// Static is a fixed signal, useful for wiring and tests.
type Static bool

func (s Static) Connected() bool { return bool(s) }

func (s Static) Watch() (<-chan bool, func()) {
	ch := make(chan bool, 1)
	ch <- bool(s)
	return ch, func() {}
}

// Monitor probes a TCP endpoint on an interval and publishes transitions.
type Monitor struct {
	addr     string
	interval time.Duration
	timeout  time.Duration

	mu     sync.Mutex
	online bool
	subs   map[uint64]chan bool
	nextID uint64
	stop   chan struct{}
	once   sync.Once
}

func NewMonitor(addr string, interval time.Duration) *Monitor {
	m := &Monitor{
		addr:     addr,
		interval: interval,
		timeout:  3 * time.Second,
		subs:     make(map[uint64]chan bool),
		stop:     make(chan struct{}),
	}
	m.online = m.probe()
	go m.loop()
	return m
}

func (m *Monitor) probe() bool {
	conn, err := net.DialTimeout("tcp", m.addr, m.timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.set(m.probe())
		}
	}
}

// set publishes only transitions, not every probe.
func (m *Monitor) set(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if online == m.online {
		return
	}
	m.online = online
	for _, ch := range m.subs {
		select {
		case ch <- online:
		default:
		}
	}
}

func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Recheck forces an immediate probe, for a user-driven retry.
func (m *Monitor) Recheck() bool {
	online := m.probe()
	m.set(online)
	return online
}

func (m *Monitor) Watch() (<-chan bool, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan bool, 1)
	ch <- m.online
	id := m.nextID
	m.nextID++
	m.subs[id] = ch
	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (m *Monitor) Close() {
	m.once.Do(func() { close(m.stop) })
}
