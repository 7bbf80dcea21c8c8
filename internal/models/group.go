package models

// Group is a set of users sharing expenses.
// Membership is append-only: members can be added but never removed.
type Group struct {
	// ID is assigned by the store's identity counter.
	ID int64

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Description is an optional free-text description.
	Description string

	// OwnerID is the user who created the group. The owner is always a member.
	OwnerID int64

	// Members are the group's users ordered by user ID.
	Members []User

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// MemberIDs returns the set of member user IDs.
func (g *Group) MemberIDs() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(g.Members))
	for _, m := range g.Members {
		ids[m.ID] = struct{}{}
	}
	return ids
}

// IsMember reports whether userID belongs to the group.
func (g *Group) IsMember(userID int64) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
