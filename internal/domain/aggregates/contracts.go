package aggregates

// LockScope names what a write serializes on before its transaction opens.
type LockScope string

const (
	// LockScopeCourseFamily queues every write that touches one base course.
	LockScopeCourseFamily LockScope = "course_family"
)

// Contract describes the write boundary an aggregate enforces.
type Contract struct {
	Name string
	// LockScope is held for the whole transaction of every mutating method.
	LockScope LockScope
	// Owns lists the tables whose rows only this aggregate creates or deletes.
	Owns []string
	// Invariants hold after every committed write.
	Invariants []string
}

// Aggregate is implemented by every write boundary.
type Aggregate interface {
	Contract() Contract
}

// SerializesFamily reports whether writes queue on the base course.
func (c Contract) SerializesFamily() bool {
	return c.LockScope == LockScopeCourseFamily
}

// OwnsTable reports whether table appears in Owns.
func (c Contract) OwnsTable(table string) bool {
	for _, t := range c.Owns {
		if t == table {
			return true
		}
	}
	return false
}
