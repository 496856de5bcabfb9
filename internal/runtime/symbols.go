package runtime

// symbolTable interns strings to dense integer IDs.
type symbolTable struct {
	ids   map[string]int
	names []string
}

func newSymbolTable() *symbolTable {
	return &symbolTable{ids: make(map[string]int)}
}

func (t *symbolTable) intern(s string) int {
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := len(t.names)
	t.ids[s] = id
	t.names = append(t.names, s)
	return id
}

func (t *symbolTable) lookup(s string) (int, bool) {
	id, ok := t.ids[s]
	return id, ok
}

func (t *symbolTable) name(id int) string {
	return t.names[id]
}

// clone returns a copy that can intern new entries without touching t.
func (t *symbolTable) clone() *symbolTable {
	c := &symbolTable{
		ids:   make(map[string]int, len(t.ids)),
		names: make([]string, len(t.names), len(t.names)+4),
	}
	copy(c.names, t.names)
	for k, v := range t.ids {
		c.ids[k] = v
	}
	return c
}
