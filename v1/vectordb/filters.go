package vectordb

// FilterCondition is the interface all filter conditions implement.
// Each database adapter converts these to its native filter format.
type FilterCondition interface {
	// IsFilterCondition is a marker method to ensure type safety
	IsFilterCondition()
}

// FilterSet supports Must (AND), Should (OR), and MustNot (NOT) clauses.
//
// Example:
//
//	filters := &FilterSet{
//	    Must: &ConditionSet{
//	        Conditions: []FilterCondition{
//	            NewMatch("city", "London"),
//	        },
//	    },
//	}
type FilterSet struct {
	// Must: All conditions must match (AND)
	Must *ConditionSet
	// Should: At least one condition must match (OR)
	Should *ConditionSet
	// MustNot: None of the conditions should match (NOT)
	MustNot *ConditionSet
}

// ConditionSet holds a group of conditions for a single clause.
type ConditionSet struct {
	Conditions []FilterCondition
}

// IsEmpty reports whether the filter set has no conditions at all.
func (fs *FilterSet) IsEmpty() bool {
	return fs == nil || (fs.Must.len() == 0 && fs.Should.len() == 0 && fs.MustNot.len() == 0)
}

func (cs *ConditionSet) len() int {
	if cs == nil {
		return 0
	}
	return len(cs.Conditions)
}

func appendCondition(cs **ConditionSet, c FilterCondition) {
	if *cs == nil {
		*cs = &ConditionSet{}
	}
	(*cs).Conditions = append((*cs).Conditions, c)
}

// ── Match Conditions ─────────────────────────────────────────────────────────

// MatchCondition represents an exact match filter (field = value).
// Value is a string, bool, or float64 (JSON numbers).
type MatchCondition struct {
	Field string
	Value any
}

func (c *MatchCondition) IsFilterCondition() {}

// MatchAnyCondition matches if value is one of the given values (IN operator).
type MatchAnyCondition struct {
	Field  string
	Values []any
}

func (c *MatchAnyCondition) IsFilterCondition() {}

// MatchExceptCondition matches if value is NOT one of the given values (NOT IN).
type MatchExceptCondition struct {
	Field  string
	Values []any
}

func (c *MatchExceptCondition) IsFilterCondition() {}

// ── Range Conditions ─────────────────────────────────────────────────────────

// NumericRange defines bounds for numeric filtering.
type NumericRange struct {
	Gt  *float64 // GreaterThan (exclusive)
	Gte *float64 // GreaterThanOrEqualTo (inclusive)
	Lt  *float64 // LessThan (exclusive)
	Lte *float64 // LessThanOrEqualTo (inclusive)
}

// NumericRangeCondition filters by numeric range.
type NumericRangeCondition struct {
	Field string
	Range NumericRange
}

func (c *NumericRangeCondition) IsFilterCondition() {}

// ── Existence / Nesting ──────────────────────────────────────────────────────

// IsEmptyCondition checks if a field is empty (doesn't exist, null, or []).
type IsEmptyCondition struct {
	Field string
}

func (c *IsEmptyCondition) IsFilterCondition() {}

// NestedCondition embeds a complete FilterSet as a single condition, which is
// how $and / $or groups are represented.
type NestedCondition struct {
	Filter *FilterSet
}

func (c *NestedCondition) IsFilterCondition() {}
