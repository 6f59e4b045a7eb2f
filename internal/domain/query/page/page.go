package page

// Size limits. MaxSize is the default cap for client requests; New itself
// does not cap.
const (
	DefaultSize = 10
	MaxSize     = 100
)

// Page is a 1-based page request. The index is kept as requested;
// clamping into the available range happens at evaluation time.
type Page struct {
	index int
	size  int
}

// New creates a Page. A size of zero or less falls back to DefaultSize;
// any positive size is honoured.
func New(index, size int) Page {
	return NewWithLimits(index, size, DefaultSize, 0)
}

// NewWithLimits is New with a caller-supplied default size and cap.
// A maxSize of zero or less means no cap.
func NewWithLimits(index, size, defaultSize, maxSize int) Page {
	if defaultSize <= 0 {
		defaultSize = DefaultSize
	}
	switch {
	case size <= 0:
		size = defaultSize
	case maxSize > 0 && size > maxSize:
		size = maxSize
	}
	return Page{index: index, size: size}
}

// Index returns the requested 1-based page index, unclamped.
func (p Page) Index() int { return p.index }

// Size returns the page size.
func (p Page) Size() int {
	if p.size <= 0 {
		return DefaultSize
	}
	return p.size
}

// TotalPages returns max(1, ceil(total/size)).
func (p Page) TotalPages(total int) int {
	size := p.Size()
	n := (total + size - 1) / size
	if n < 1 {
		return 1
	}
	return n
}

// Clamp returns the index forced into [1, totalPages].
func (p Page) Clamp(totalPages int) int {
	switch {
	case p.index < 1:
		return 1
	case p.index > totalPages:
		return totalPages
	}
	return p.index
}

// Bounds returns the half-open slice window [lo, hi) of the clamped page
// over total items.
func (p Page) Bounds(total int) (lo, hi int) {
	idx := p.Clamp(p.TotalPages(total))
	lo = (idx - 1) * p.Size()
	hi = lo + p.Size()
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}
	return lo, hi
}
