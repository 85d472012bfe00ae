package download

import "sync"

type File struct {
	Name string
	Data []byte
}

// Memory keeps the most recent download so an HTTP handler can serve it.
type Memory struct {
	mu   sync.RWMutex
	last *File
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) TriggerDownload(filename string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = &File{Name: filename, Data: append([]byte(nil), data...)}
	return nil
}

func (m *Memory) Last() (File, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return File{}, false
	}
	return *m.last, true
}
