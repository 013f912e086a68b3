package ws

// Registry tracks live connections and the room each one occupies. It is
// owned by the Core goroutine and is not safe for concurrent use.
type Registry struct {
	conns map[string]*registration
}

type registration struct {
	client *Client
	room   string
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]*registration),
	}
}

// Admit records c under its identifier and returns it.
func (r *Registry) Admit(c *Client) string {
	if _, exists := r.conns[c.ID]; !exists {
		r.conns[c.ID] = &registration{client: c}
	}
	return c.ID
}

// Dismiss forgets id and reports the room it was in. Dismissing an unknown
// id is a no-op.
func (r *Registry) Dismiss(id string) (room string, ok bool) {
	reg, ok := r.conns[id]
	if !ok {
		return "", false
	}
	delete(r.conns, id)
	return reg.room, true
}

func (r *Registry) Client(id string) (*Client, bool) {
	reg, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	return reg.client, true
}

// Room returns the code of the room id occupies, or "".
func (r *Registry) Room(id string) string {
	if reg, ok := r.conns[id]; ok {
		return reg.room
	}
	return ""
}

func (r *Registry) SetRoom(id, code string) {
	if reg, ok := r.conns[id]; ok {
		reg.room = code
	}
}

func (r *Registry) Len() int {
	return len(r.conns)
}

// each visits every live connection.
func (r *Registry) each(fn func(c *Client)) {
	for _, reg := range r.conns {
		fn(reg.client)
	}
}
