package insts

import (
	"fmt"

	"github.com/sarchlab/vpsim/values"
)

// Category represents an instruction category.
type Category uint8

// Instruction categories.
const (
	CategoryUnknown Category = iota
	CategoryPureLoad
	CategoryLoadArith
	CategoryPureArith
	CategoryArith1Op
	CategoryArith2Op
	CategoryRegMov
	CategoryFPPureLoad
	CategoryFPLoadArith
	CategoryFPPureArith
	CategoryFPArith1Op
	CategoryFPArith2Op
	CategoryFPRegMov

	NumCategories int = iota
)

var categoryNames = [...]string{
	CategoryUnknown:     "UNKNOWN",
	CategoryPureLoad:    "PURE_LOAD",
	CategoryLoadArith:   "LOAD_ARITH",
	CategoryPureArith:   "PURE_ARITH",
	CategoryArith1Op:    "ARITH_1OP",
	CategoryArith2Op:    "ARITH_2OP",
	CategoryRegMov:      "REG_MOV",
	CategoryFPPureLoad:  "FP_PURE_LOAD",
	CategoryFPLoadArith: "FP_LOAD_ARITH",
	CategoryFPPureArith: "FP_PURE_ARITH",
	CategoryFPArith1Op:  "FP_ARITH_1OP",
	CategoryFPArith2Op:  "FP_ARITH_2OP",
	CategoryFPRegMov:    "FP_REG_MOV",
}

// String returns the category name.
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("CATEGORY(%d)", uint8(c))
}

// IsFloat reports whether c is a floating-point category.
func (c Category) IsFloat() bool {
	return c >= CategoryFPPureLoad && c <= CategoryFPRegMov
}

// Categories returns every category in declaration order.
func Categories() []Category {
	cats := make([]Category, NumCategories)
	for i := range cats {
		cats[i] = Category(i)
	}
	return cats
}

// Shape describes the properties of an instruction that decide its category.
type Shape struct {
	MemoryRead   bool         // Reads a memory operand
	Class        values.Class // Class of the destination register
	DataMove     bool         // Belongs to the data-move instruction group
	Arithmetic   bool         // Belongs to an arithmetic/logic instruction group
	ReadOperands int          // Number of register operands read
}

// fpOffset maps an integer category to its floating-point counterpart.
const fpOffset = CategoryFPPureLoad - CategoryPureLoad

type rule struct {
	match    func(s Shape) bool
	category Category
}

// rules is evaluated in order; the first match wins.
var rules = []rule{
	{func(s Shape) bool { return s.MemoryRead && s.DataMove }, CategoryPureLoad},
	{func(s Shape) bool { return s.MemoryRead && s.Arithmetic }, CategoryLoadArith},
	{func(s Shape) bool { return s.DataMove }, CategoryRegMov},
	{func(s Shape) bool { return s.Arithmetic && s.ReadOperands == 1 }, CategoryArith1Op},
	{func(s Shape) bool { return s.Arithmetic && s.ReadOperands == 2 }, CategoryArith2Op},
	{func(s Shape) bool { return s.Arithmetic }, CategoryPureArith},
}

// Classify maps an instruction shape to its category. Shapes that match no
// rule are CategoryUnknown.
func Classify(s Shape) Category {
	for _, r := range rules {
		if r.match(s) {
			if s.Class.IsFloat() {
				return r.category + fpOffset
			}
			return r.category
		}
	}
	return CategoryUnknown
}
