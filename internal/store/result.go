package store

// Outcome tells a caller what a mutation did. Anything but Applied
// means the state was left untouched.
type Outcome int

const (
	Applied Outcome = iota
	RejectedEmptyName
	RejectedMissingField
	RejectedNoActiveBlock
	RejectedTooLarge
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case RejectedEmptyName:
		return "name is empty"
	case RejectedMissingField:
		return "required field is empty"
	case RejectedNoActiveBlock:
		return "no active block"
	case RejectedTooLarge:
		return "file is too large"
	case NotFound:
		return "not found"
	}
	return "unknown"
}

// OK reports whether the mutation was applied.
func (o Outcome) OK() bool { return o == Applied }

// Result is returned by every mutation. ID names the created block or
// item when the mutation created one.
type Result struct {
	Outcome Outcome
	ID      string
}

func applied(id string) Result  { return Result{Outcome: Applied, ID: id} }
func rejected(o Outcome) Result { return Result{Outcome: o} }
