package trail

// Value is the assignment of a boolean variable, or of a literal when seen
// through its sign.
type Value uint8

const (
	Unassigned Value = iota
	True
	False
)

// valueOf returns the value of a variable assigned to b.
func valueOf(b bool) Value {
	if b {
		return True
	}
	return False
}

// as returns the value seen by a literal with the given sign: negative
// literals see True and False swapped.
func (v Value) as(neg bool) Value {
	if !neg || v == Unassigned {
		return v
	}
	if v == True {
		return False
	}
	return True
}

// String implements the Stringer interface.
func (v Value) String() string {
	switch v {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unassigned"
	}
}
