package chat

import "time"

// Group is a maximal run of consecutive same-role messages, the unit of
// visual clustering in the transcript.
type Group struct {
	Role     Role
	Messages []Message
}

// Timestamp returns the display time of the group, which is the
// timestamp of its last member.
func (g Group) Timestamp() time.Time {
	if len(g.Messages) == 0 {
		return time.Time{}
	}
	return g.Messages[len(g.Messages)-1].Timestamp
}

// GroupMessages folds the ordered message log into groups, starting a
// new group whenever the role changes. It is a pure projection: the
// input is never mutated and calling it twice yields identical output.
func GroupMessages(msgs []Message) []Group {
	var groups []Group
	for _, m := range msgs {
		if n := len(groups); n > 0 && groups[n-1].Role == m.Role {
			groups[n-1].Messages = append(groups[n-1].Messages, m)
			continue
		}
		groups = append(groups, Group{Role: m.Role, Messages: []Message{m}})
	}
	return groups
}
