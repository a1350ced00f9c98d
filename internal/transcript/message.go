package transcript

// Role tags who produced a message.
type Role string

const (
	RoleInput     Role = "input"     // user-supplied seed
	RoleGenerated Role = "generated" // draft produced by the generator
	RoleCritique  Role = "critique"  // feedback produced by the critic
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleInput, RoleGenerated, RoleCritique:
		return true
	}
	return false
}

// Message is a single entry of a transcript. It is a value; copies never share state.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
