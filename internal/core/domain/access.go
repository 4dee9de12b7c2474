package domain

// Actor is the authenticated caller resolved by the auth middleware.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanApprove reports whether the actor's role may decide leave requests.
func (a Actor) CanApprove() bool { return a.Role == RoleAdmin || a.Role == RoleHR }

// Owned is implemented by records that carry a creator reference.
type Owned interface {
	OwnerID() string
}

// CanModify reports whether actor created o. Ids are compared as opaque
// strings; an empty actor id never matches.
func CanModify(actor Actor, o Owned) bool {
	return actor.ID != "" && actor.ID == o.OwnerID()
}
