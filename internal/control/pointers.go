package control

import "github.com/frudas24/padtouch/internal/mapper"

// PointerTable assigns client pointer ids to the mapper's fixed touch slots.
// Slots are reused lowest-first so the first finger down keeps the lowest id.
type PointerTable struct {
	ids    [mapper.MaxPointers]int
	active [mapper.MaxPointers]bool
	xs     [mapper.MaxPointers]int
	ys     [mapper.MaxPointers]int
}

// NewPointerTable returns an empty table.
func NewPointerTable() *PointerTable {
	return &PointerTable{}
}

// Down starts tracking a pointer. A repeated down for a tracked id moves it.
// It returns false when every slot is taken.
func (p *PointerTable) Down(id, x, y int) bool {
	if slot, ok := p.slot(id); ok {
		p.xs[slot], p.ys[slot] = x, y
		return true
	}
	for slot := range p.active {
		if !p.active[slot] {
			p.ids[slot] = id
			p.active[slot] = true
			p.xs[slot], p.ys[slot] = x, y
			return true
		}
	}
	return false
}

// Move updates a tracked pointer and reports whether it was known.
func (p *PointerTable) Move(id, x, y int) bool {
	slot, ok := p.slot(id)
	if !ok {
		return false
	}
	p.xs[slot], p.ys[slot] = x, y
	return true
}

// Up stops tracking a pointer and reports whether it was known.
func (p *PointerTable) Up(id int) bool {
	slot, ok := p.slot(id)
	if !ok {
		return false
	}
	p.active[slot] = false
	return true
}

// Reset releases every pointer.
func (p *PointerTable) Reset() {
	p.active = [mapper.MaxPointers]bool{}
}

// Count returns the number of tracked pointers.
func (p *PointerTable) Count() int {
	n := 0
	for _, a := range p.active {
		if a {
			n++
		}
	}
	return n
}

// Frame returns the per-slot arrays and the highest slot index in use.
func (p *PointerTable) Frame() (active []bool, xs, ys []int, maxChanged int) {
	active = append([]bool(nil), p.active[:]...)
	xs = append([]int(nil), p.xs[:]...)
	ys = append([]int(nil), p.ys[:]...)
	for slot := len(active) - 1; slot > 0; slot-- {
		if active[slot] {
			maxChanged = slot
			break
		}
	}
	return active, xs, ys, maxChanged
}

// slot finds the slot of an active pointer id.
func (p *PointerTable) slot(id int) (int, bool) {
	for slot, a := range p.active {
		if a && p.ids[slot] == id {
			return slot, true
		}
	}
	return 0, false
}
