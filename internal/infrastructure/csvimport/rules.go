package csvimport

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ValueType is the type a cell must parse as
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeInt     ValueType = "integer"
	TypeDecimal ValueType = "decimal"
)

// Rule constrains one column. Empty cells only fail the Required check.
type Rule struct {
	Column    string
	Type      ValueType
	Required  bool
	MaxLength int
	Min       *decimal.Decimal
	OneOf     []string
	// Unique rejects a value already seen in an earlier row, ignoring case
	Unique bool
}

// RuleBuilder builds a Rule fluently
type RuleBuilder struct {
	rule Rule
}

// Column starts a string rule for column
func Column(name string) *RuleBuilder {
	return &RuleBuilder{rule: Rule{Column: name, Type: TypeString}}
}

func (b *RuleBuilder) Required() *RuleBuilder {
	b.rule.Required = true
	return b
}

func (b *RuleBuilder) Int() *RuleBuilder {
	b.rule.Type = TypeInt
	return b
}

func (b *RuleBuilder) Decimal() *RuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// MaxLength limits the value to n characters
func (b *RuleBuilder) MaxLength(n int) *RuleBuilder {
	b.rule.MaxLength = n
	return b
}

// Min sets the smallest accepted number
func (b *RuleBuilder) Min(v decimal.Decimal) *RuleBuilder {
	b.rule.Min = &v
	return b
}

// OneOf limits the value to the given words, compared case-insensitively
func (b *RuleBuilder) OneOf(values ...string) *RuleBuilder {
	b.rule.OneOf = values
	return b
}

func (b *RuleBuilder) Unique() *RuleBuilder {
	b.rule.Unique = true
	return b
}

// Build returns the rule
func (b *RuleBuilder) Build() Rule {
	return b.rule
}

// Required lists the columns a header must contain for rules
func Required(rules []Rule) []string {
	var cols []string
	for _, r := range rules {
		if r.Required {
			cols = append(cols, r.Column)
		}
	}
	return cols
}

// RowValidator applies rules to rows in file order and collects the failures
type RowValidator struct {
	rules  []Rule
	seen   map[string]map[string]int
	errors *ErrorCollection
}

// NewRowValidator keeps at most maxErrors errors
func NewRowValidator(rules []Rule, maxErrors int) *RowValidator {
	seen := make(map[string]map[string]int)
	for _, r := range rules {
		if r.Unique {
			seen[r.Column] = make(map[string]int)
		}
	}
	return &RowValidator{
		rules:  rules,
		seen:   seen,
		errors: NewErrorCollection(maxErrors),
	}
}

// Validate checks row against every rule and reports whether it passed
func (v *RowValidator) Validate(row Row) bool {
	before := v.errors.Total()
	for _, rule := range v.rules {
		v.check(row.Line, rule, row.Get(rule.Column))
	}
	return v.errors.Total() == before
}

// Errors returns the collected failures
func (v *RowValidator) Errors() *ErrorCollection {
	return v.errors
}

func (v *RowValidator) check(line int, rule Rule, value string) {
	if value == "" {
		if rule.Required {
			v.add(line, rule.Column, CodeRequired, "value is required", "")
		}
		return
	}

	if rule.MaxLength > 0 && utf8.RuneCountInString(value) > rule.MaxLength {
		v.add(line, rule.Column, CodeInvalidLength,
			fmt.Sprintf("must be at most %d characters", rule.MaxLength), "")
		return
	}

	switch rule.Type {
	case TypeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			v.add(line, rule.Column, CodeInvalidType, "must be a whole number", value)
			return
		}
		v.checkMin(line, rule, decimal.NewFromInt(int64(n)), value)
	case TypeDecimal:
		d, err := ParseDecimal(value)
		if err != nil {
			v.add(line, rule.Column, CodeInvalidType, "must be a number", value)
			return
		}
		v.checkMin(line, rule, d, value)
	}

	if len(rule.OneOf) > 0 && !containsFold(rule.OneOf, value) {
		v.add(line, rule.Column, CodeNotAllowed,
			"must be one of: "+strings.Join(rule.OneOf, ", "), value)
	}

	if seen, ok := v.seen[rule.Column]; ok {
		key := strings.ToLower(value)
		if first, dup := seen[key]; dup {
			v.add(line, rule.Column, CodeDuplicate,
				fmt.Sprintf("value already used on row %d", first), value)
			return
		}
		seen[key] = line
	}
}

func (v *RowValidator) checkMin(line int, rule Rule, n decimal.Decimal, raw string) {
	if rule.Min != nil && n.LessThan(*rule.Min) {
		v.add(line, rule.Column, CodeInvalidRange, "must be at least "+rule.Min.String(), raw)
	}
}

func (v *RowValidator) add(line int, column, code, message, value string) {
	v.errors.Add(RowError{Row: line, Column: column, Code: code, Message: message, Value: value})
}

// ParseDecimal reads a number written with either '.' or a single ',' as the
// decimal separator, so "3200,50" and "3200.50" are the same price.
func ParseDecimal(s string) (decimal.Decimal, error) {
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
