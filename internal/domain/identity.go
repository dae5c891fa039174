package domain

// Identity is the authenticated principal as reported by the identity provider.
// A nil *Identity means no session is active.
type Identity struct {
	ID    string
	Email string
}

// Clone returns a copy of the identity, or nil for nil.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// SameIdentity reports whether a and b name the same principal.
// Two absent identities are the same; email changes do not count.
func SameIdentity(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID == b.ID
}

// OwnerID returns the identity id, or "" when absent.
func (i *Identity) OwnerID() string {
	if i == nil {
		return ""
	}
	return i.ID
}
