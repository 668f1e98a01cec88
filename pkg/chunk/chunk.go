package chunk

// Chunk is a compiled sequence of instructions with its line table and constant pool.
// It only grows by appending; once handed to a VM it must not be mutated.
type Chunk struct {
	code      []Instruction // instructions in execution order
	lines     []int         // source line per instruction, parallel to code
	constants []Value       // constant pool, referenced by index
}

// New creates an empty chunk
func New() *Chunk {
	return &Chunk{
		code:      make([]Instruction, 0, 8),
		lines:     make([]int, 0, 8),
		constants: make([]Value, 0, 4),
	}
}

// Write appends an instruction with the line it came from.
// Operands are not validated here; a bad constant index faults at execution time.
func (c *Chunk) Write(ins Instruction, line int) {
	c.code = append(c.code, ins)
	c.lines = append(c.lines, line)
}

// AddConstant appends a value to the constant pool and returns its index
func (c *Chunk) AddConstant(v Value) int {
	c.constants = append(c.constants, v)
	return len(c.constants) - 1
}

// WriteConstant adds v to the pool and appends the OpConstant that loads it
func (c *Chunk) WriteConstant(v Value, line int) int {
	idx := c.AddConstant(v)
	c.Write(Constant(idx), line)
	return idx
}

// Len returns the number of instructions
func (c *Chunk) Len() int {
	return len(c.code)
}

// At returns the instruction at offset
func (c *Chunk) At(offset int) Instruction {
	return c.code[offset]
}

// Line returns the source line of the instruction at offset
func (c *Chunk) Line(offset int) int {
	if offset < 0 || offset >= len(c.lines) {
		return 0
	}

	return c.lines[offset]
}

// Constant returns the pooled value at index, reporting false when out of range
func (c *Chunk) Constant(index int) (Value, bool) {
	if index < 0 || index >= len(c.constants) {
		return 0, false
	}

	return c.constants[index], true
}

// ConstantCount returns the size of the constant pool
func (c *Chunk) ConstantCount() int {
	return len(c.constants)
}
