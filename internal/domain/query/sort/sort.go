package sort

// Direction is the sort order.
type Direction string

// Sort direction constants.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// IsValid checks if the direction is one of the supported values.
func (d Direction) IsValid() bool {
	return d == Asc || d == Desc
}

// Order is a sort key plus direction. An empty key means "keep filter order".
type Order struct {
	key       string
	direction Direction
}

// New creates an Order. An empty or unrecognized direction falls back to asc.
func New(key string, d Direction) Order {
	if !d.IsValid() {
		d = Asc
	}
	return Order{key: key, direction: d}
}

// Key returns the logical field name to sort by.
func (o Order) Key() string { return o.key }

// Direction returns the sort direction.
func (o Order) Direction() Direction {
	if o.direction == "" {
		return Asc
	}
	return o.direction
}

// IsNone reports whether no sort is requested.
func (o Order) IsNone() bool { return o.key == "" }
