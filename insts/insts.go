// Package insts provides the instruction category taxonomy used to bucket
// predictor statistics.
//
// Categories are assigned once per instruction address from the shape of
// the instruction, as reported by the instrumentation front end:
//   - Loads: PURE_LOAD, LOAD_ARITH
//   - Register moves: REG_MOV
//   - Arithmetic: PURE_ARITH, ARITH_1OP, ARITH_2OP
//
// Each category has a floating-point counterpart selected by the value class.
//
// Usage:
//
//	cat := insts.Classify(insts.Shape{
//		MemoryRead: true,
//		Class:      values.Int64,
//		DataMove:   true,
//	})
//	fmt.Println(cat) // PURE_LOAD
package insts
