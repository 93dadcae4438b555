package vm

import (
	"fmt"
	"slices"
)

// Access is the kind of the last access made to a cell.
type Access uint8

// Access types.
const (
	AccessNone Access = iota
	AccessRead
	AccessWrite
	AccessFetch // Read as an instruction word.
)

// DenseCells is the size of the contiguous part of the memory. Cells written
// past it are kept in a sparse map so unbounded memories accept any address.
const DenseCells = 1 << 20

// Memory is the address space of a Computer.
// Cells outside of the allocated range read as zero and get allocated on write.
type Memory struct {
	cells  []int64
	access []Access
	limit  int // Max number of cells, <= 0 for unbounded.

	sparse       map[int64]int64 // Cells at or past DenseCells.
	sparseAccess map[int64]Access
}

// NewMemory creates a memory initialized with a copy of the given program.
func NewMemory(program []int64, limit int) *Memory {
	return &Memory{
		cells:  slices.Clone(program),
		access: make([]Access, len(program)),
		limit:  limit,
	}
}

func (m *Memory) check(addr int64) error {
	if addr < 0 || (m.limit > 0 && addr >= int64(m.limit)) {
		return fmt.Errorf("address %d out of range (limit %d): %w", addr, m.limit, ErrMemoryFault)
	}
	return nil
}

func (m *Memory) read(addr int64, at Access) (int64, error) {
	if err := m.check(addr); err != nil {
		return 0, err
	}
	if addr >= int64(len(m.cells)) {
		v, ok := m.sparse[addr]
		if ok {
			m.sparseAccess[addr] = at
		}
		return v, nil
	}
	m.access[addr] = at
	return m.cells[addr], nil
}

// Read returns the value stored at addr.
func (m *Memory) Read(addr int64) (int64, error) {
	return m.read(addr, AccessRead)
}

// Write stores value at addr, growing the memory if needed.
func (m *Memory) Write(addr, value int64) error {
	if err := m.check(addr); err != nil {
		return err
	}
	if addr >= DenseCells && addr >= int64(len(m.cells)) {
		if m.sparse == nil {
			m.sparse = map[int64]int64{}
			m.sparseAccess = map[int64]Access{}
		}
		m.sparse[addr] = value
		m.sparseAccess[addr] = AccessWrite
		return nil
	}
	if n := int(addr) + 1; n > len(m.cells) {
		m.cells = append(m.cells, make([]int64, n-len(m.cells))...)
		m.access = append(m.access, make([]Access, n-len(m.access))...)
	}
	m.cells[addr] = value
	m.access[addr] = AccessWrite
	return nil
}

// Len returns the number of allocated contiguous cells, sparse cells excluded.
func (m *Memory) Len() int {
	return len(m.cells)
}

// Limit returns the max number of cells, <= 0 when unbounded.
func (m *Memory) Limit() int {
	return m.limit
}

// Snapshot returns a copy of the allocated contiguous cells.
func (m *Memory) Snapshot() []int64 {
	return slices.Clone(m.cells)
}

// Access returns the kind of the last access made at addr.
func (m *Memory) Access(addr int64) Access {
	if addr < 0 {
		return AccessNone
	}
	if addr >= int64(len(m.access)) {
		return m.sparseAccess[addr]
	}
	return m.access[addr]
}
