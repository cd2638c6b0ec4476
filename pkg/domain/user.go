// Package domain contains the entities exchanged with the host framework.
// No transport or lifecycle logic here.
package domain

// GroupKey identifies a logical end user. Every connection opened with the
// same key shares one room.
type GroupKey string

// Participant is the {id} object used for update senders and recipients.
type Participant struct {
	ID string `json:"id"`
}

// NewParticipant avoids raw literals when addressing a group.
func NewParticipant(key GroupKey) Participant {
	return Participant{ID: string(key)}
}

// Key returns the participant id as a GroupKey.
func (p Participant) Key() GroupKey { return GroupKey(p.ID) }
