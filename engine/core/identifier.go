package core

import "fmt"

// IdentifierPool hands out small reusable ids. Released slots are reused
// before the pool grows.
type IdentifierPool struct {
	owners []interface{}
}

func NewIdentifierPool(capacity int) *IdentifierPool {
	if capacity < 1 {
		capacity = 1
	}
	return &IdentifierPool{
		owners: make([]interface{}, capacity),
	}
}

func (p *IdentifierPool) AcquireNewID(owner interface{}) uint32 {
	length := uint32(len(p.owners))
	for i := uint32(0); i < length; i++ {
		// Existing free spot. Take it.
		if p.owners[i] == nil {
			p.owners[i] = owner
			return i
		}
	}

	// No existing free slots, so the new id is the old length.
	p.owners = append(p.owners, owner)
	return length
}

func (p *IdentifierPool) ReleaseID(id uint32) error {
	length := uint32(len(p.owners))
	if id >= length {
		return fmt.Errorf("identifier release: id '%d' out of range (max=%d): %w", id, length, ErrIndexOutOfRange)
	}
	if p.owners[id] == nil {
		return fmt.Errorf("identifier release: id '%d': %w", id, ErrNotRegistered)
	}

	// Just zero out the entry, making it available for use.
	p.owners[id] = nil
	return nil
}
