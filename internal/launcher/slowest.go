package launcher

import (
	"time"
)

// ChainLink is one firework on the slowest chain with how long it ran.
type ChainLink struct {
	FireworkName string
	Ran          time.Duration
}

// SlowestChain reports the root-to-leaf dependency chain with the largest
// accumulated run time, from the durations recorded during Run. It points
// at the fireworks worth speeding up first.
func (l *Launcher) SlowestChain() []ChainLink {
	l.mu.Lock()
	defer l.mu.Unlock()

	type best struct {
		total time.Duration
		next  string
	}
	memo := map[string]best{}

	var visit func(id string) best
	visit = func(id string) best {
		if b, ok := memo[id]; ok {
			return b
		}
		b := best{total: l.durations[id]}
		for _, child := range l.wf.Children(id) {
			cb := visit(child.ID())
			if cb.total+l.durations[id] > b.total {
				b.total = cb.total + l.durations[id]
				b.next = child.ID()
			}
		}
		memo[id] = b

		return b
	}

	var startID string
	var startTotal time.Duration
	for _, root := range l.wf.Roots() {
		b := visit(root.ID())
		if startID == "" || b.total > startTotal {
			startID = root.ID()
			startTotal = b.total
		}
	}
	if startID == "" {
		return nil
	}

	var chain []ChainLink
	for id := startID; id != ""; id = memo[id].next {
		fw, err := l.wf.Firework(id)
		if err != nil {
			break
		}
		chain = append(chain, ChainLink{FireworkName: fw.Name(), Ran: l.durations[id]})
	}

	return chain
}
