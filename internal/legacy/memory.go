package legacy

// Memory is an in-process legacy store. Hosts with no platform store use it
// empty; tests seed it with the Put methods.
type Memory struct {
	values map[string]any
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]any)}
}

func (m *Memory) PutInt(key string, v int) { m.values[key] = v }
func (m *Memory) PutFloat(key string, v float64) { m.values[key] = v }
func (m *Memory) PutString(key string, v string) { m.values[key] = v }

// Len reports how many entries remain.
func (m *Memory) Len() int { return len(m.values) }

func (m *Memory) Has(key string) (bool, error) {
	_, ok := m.values[key]
	return ok, nil
}

func (m *Memory) GetInt(key string, def int) (int, error) {
	if v, ok := m.values[key].(int); ok {
		return v, nil
	}
	return def, nil
}

func (m *Memory) GetFloat(key string, def float64) (float64, error) {
	if v, ok := m.values[key].(float64); ok {
		return v, nil
	}
	return def, nil
}

func (m *Memory) GetString(key string, def string) (string, error) {
	if v, ok := m.values[key].(string); ok {
		return v, nil
	}
	return def, nil
}

func (m *Memory) Delete(key string) error {
	delete(m.values, key)
	return nil
}

func (m *Memory) DeleteAll() error {
	clear(m.values)
	return nil
}

func (m *Memory) Close() error { return nil }
