package find

// Condition is a node in a boolean expression tree over search criteria.
// Trees are built bottom-up, never mutated afterwards, and are stateless:
// the same tree can be evaluated against any number of entries.
//
// Evaluation is strictly left-to-right with short-circuiting. Criteria vary
// a lot in cost (a substring check is cheap, a metadata fetch is a syscall),
// so put the operand you expect to decide the outcome on the left of an And
// or Or. That ordering is a contract, not an optimization hint: the right
// operand is guaranteed not to be evaluated once the left one decides.
type Condition interface {
	// Evaluate reports whether the entry satisfies the condition. An error
	// from a criteria propagates unchanged and stops evaluation of any
	// remaining operands.
	Evaluate(e Entry) (bool, error)
}

type valueCond struct {
	c Criteria
}

// Value lifts a single criteria into a condition leaf.
func Value(c Criteria) Condition { return valueCond{c: c} }

func (v valueCond) Evaluate(e Entry) (bool, error) { return v.c.Match(e) }

type notCond struct {
	cond Condition
}

// Not negates a condition. Errors from the child propagate unchanged.
func Not(c Condition) Condition { return notCond{cond: c} }

func (n notCond) Evaluate(e Entry) (bool, error) {
	ok, err := n.cond.Evaluate(e)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type andCond struct {
	left, right Condition
}

// And requires both conditions to hold. The right condition is not
// evaluated when the left one is false or fails.
func And(left, right Condition) Condition { return andCond{left: left, right: right} }

func (a andCond) Evaluate(e Entry) (bool, error) {
	ok, err := a.left.Evaluate(e)
	if err != nil || !ok {
		return false, err
	}
	return a.right.Evaluate(e)
}

type orCond struct {
	left, right Condition
}

// Or requires at least one condition to hold. The right condition is not
// evaluated when the left one is true or fails.
func Or(left, right Condition) Condition { return orCond{left: left, right: right} }

func (o orCond) Evaluate(e Entry) (bool, error) {
	ok, err := o.left.Evaluate(e)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return o.right.Evaluate(e)
}

// AllOf builds a left-folded And chain requiring every criteria to match.
// Returns nil on empty input.
func AllOf(criteria ...Criteria) Condition {
	return fold(criteria, And, Value)
}

// AnyOf builds a left-folded Or chain requiring at least one criteria to
// match. Returns nil on empty input.
func AnyOf(criteria ...Criteria) Condition {
	return fold(criteria, Or, Value)
}

// NoneOf builds a chain requiring every criteria's negation:
// Not(c0) And Not(c1) And so on. Returns nil on empty input.
func NoneOf(criteria ...Criteria) Condition {
	return fold(criteria, And, func(c Criteria) Condition { return Not(Value(c)) })
}

func fold(criteria []Criteria, join func(Condition, Condition) Condition, leaf func(Criteria) Condition) Condition {
	if len(criteria) == 0 {
		return nil
	}
	cond := leaf(criteria[0])
	for _, c := range criteria[1:] {
		cond = join(cond, leaf(c))
	}
	return cond
}
