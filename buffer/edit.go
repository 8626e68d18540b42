package buffer

import "github.com/memvault/memvault/internal/memops"

// Assign replaces the content with a copy of p. When p is shorter than
// the previous content, the vacated tail is wiped.
func (b *Buffer) Assign(p []byte) error {
	if len(p) == 0 && b.mem == nil {
		return nil
	}
	if err := b.ensure(len(p)); err != nil {
		return err
	}
	old := b.n
	copy(b.mem, p)
	b.n = len(p)
	b.mem[b.n] = 0
	if old > b.n {
		memops.Wipe(b.mem[b.n+1 : old+1])
	}
	return nil
}

// AssignString replaces the content with a copy of s. Note that s
// itself is ordinary Go memory.
func (b *Buffer) AssignString(s string) error {
	return b.Assign([]byte(s))
}

// AssignRepeat replaces the content with n copies of c.
func (b *Buffer) AssignRepeat(n int, c byte) error {
	if n < 0 {
		return ErrOutOfRange
	}
	if n == 0 && b.mem == nil {
		return nil
	}
	if err := b.ensure(n); err != nil {
		return err
	}
	old := b.n
	memops.Fill(b.mem[:n], c)
	b.n = n
	b.mem[b.n] = 0
	if old > b.n {
		memops.Wipe(b.mem[b.n+1 : old+1])
	}
	return nil
}

// Append appends a copy of p.
func (b *Buffer) Append(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if err := b.ensure(b.n + len(p)); err != nil {
		return err
	}
	copy(b.mem[b.n:], p)
	b.n += len(p)
	b.mem[b.n] = 0
	return nil
}

// AppendString appends a copy of s.
func (b *Buffer) AppendString(s string) error {
	return b.Append([]byte(s))
}

// AppendByte appends a single byte.
func (b *Buffer) AppendByte(c byte) error {
	if err := b.ensure(b.n + 1); err != nil {
		return err
	}
	b.mem[b.n] = c
	b.n++
	b.mem[b.n] = 0
	return nil
}

// PopBack removes the last byte and wipes it.
func (b *Buffer) PopBack() error {
	if b.n == 0 {
		return ErrOutOfRange
	}
	b.n--
	b.mem[b.n] = 0
	return nil
}

// Insert inserts a copy of p before position i.
func (b *Buffer) Insert(i int, p []byte) error {
	if i < 0 || i > b.n {
		return ErrOutOfRange
	}
	if len(p) == 0 {
		return nil
	}
	if err := b.ensure(b.n + len(p)); err != nil {
		return err
	}
	copy(b.mem[i+len(p):b.n+len(p)], b.mem[i:b.n])
	copy(b.mem[i:], p)
	b.n += len(p)
	b.mem[b.n] = 0
	return nil
}

// Erase removes count bytes starting at position i, clamped to the end
// of the buffer, and wipes the vacated tail.
func (b *Buffer) Erase(i, count int) error {
	if i < 0 || i > b.n || count < 0 {
		return ErrOutOfRange
	}
	if count > b.n-i {
		count = b.n - i
	}
	if count == 0 {
		return nil
	}
	copy(b.mem[i:], b.mem[i+count:b.n])
	newN := b.n - count
	memops.Wipe(b.mem[newN : b.n+1])
	b.n = newN
	return nil
}

// Replace substitutes count bytes starting at position i (clamped to
// the end) with a copy of p. Equal lengths overwrite in place; anything
// else moves the suffix and wipes whatever the shrink vacated.
func (b *Buffer) Replace(i, count int, p []byte) error {
	if i < 0 || i > b.n || count < 0 {
		return ErrOutOfRange
	}
	if count > b.n-i {
		count = b.n - i
	}
	if len(p) == count {
		copy(b.mem[i:i+count], p)
		return nil
	}
	newN := b.n - count + len(p)
	if err := b.ensure(newN); err != nil {
		return err
	}
	copy(b.mem[i+len(p):newN], b.mem[i+count:b.n])
	copy(b.mem[i:], p)
	if newN < b.n {
		memops.Wipe(b.mem[newN : b.n+1])
	} else {
		b.mem[newN] = 0
	}
	b.n = newN
	return nil
}

// Resize sets the length to k, filling new bytes with fill on growth
// and wiping the vacated tail on shrink.
func (b *Buffer) Resize(k int, fill byte) error {
	if k < 0 {
		return ErrOutOfRange
	}
	switch {
	case k > b.n:
		if err := b.ensure(k); err != nil {
			return err
		}
		memops.Fill(b.mem[b.n:k], fill)
		b.n = k
		b.mem[b.n] = 0
	case k < b.n:
		memops.Wipe(b.mem[k : b.n+1])
		b.n = k
	}
	return nil
}

// Clear empties the buffer and wipes the entire capacity. The storage
// is kept for reuse; use Destroy or ShrinkToFit to release it.
func (b *Buffer) Clear() {
	if b.mem != nil {
		memops.Wipe(b.mem)
	}
	b.n = 0
}
