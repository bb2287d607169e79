package dice

// DefaultSides is the number of faces used when a Roller is not told otherwise.
const DefaultSides = 6

// RollRequest describes a single roll: Count dice with Sides faces each.
type RollRequest struct {
	Count int
	Sides int
}

// Validate checks the request preconditions in the order RollMany applies them.
func (r RollRequest) Validate() error {
	if r.Count < 1 {
		return errCount()
	}
	if r.Sides < 1 {
		return errSides()
	}
	return nil
}

// Result holds die values in roll order.
type Result []int

// Total returns the sum of all values.
func (r Result) Total() int {
	total := 0
	for _, v := range r {
		total += v
	}
	return total
}

// String returns the human-readable summary produced by Format.
// An empty Result yields an empty string.
func (r Result) String() string {
	s, err := Format(r)
	if err != nil {
		return ""
	}
	return s
}

// Roller rolls dice against a Source.
// A Roller is safe for concurrent use if its Source is.
type Roller struct {
	src   Source
	sides int
}

// Option configures a Roller.
type Option func(*Roller)

// WithSource sets the random source. A nil source is ignored.
func WithSource(src Source) Option {
	return func(r *Roller) {
		if src != nil {
			r.src = src
		}
	}
}

// WithSides sets the default number of faces used by Roll.
// Values below 1 are kept and rejected when rolling.
func WithSides(sides int) Option {
	return func(r *Roller) {
		r.sides = sides
	}
}

// New creates a Roller. Without options it uses DefaultSource and DefaultSides.
func New(opts ...Option) *Roller {
	r := &Roller{
		src:   DefaultSource(),
		sides: DefaultSides,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sides returns the default number of faces used by Roll.
func (r *Roller) Sides() int {
	return r.sides
}

// RollOne returns a uniform value in [1, sides].
func (r *Roller) RollOne(sides int) (int, error) {
	if sides < 1 {
		return 0, errSides()
	}
	return 1 + r.src.IntN(sides), nil
}

// RollMany rolls count dice with the given sides and returns them in roll order.
//
// count is checked before any die is rolled. An invalid sides value fails on
// the first die, also before the source is used. On error no values are
// returned.
func (r *Roller) RollMany(count, sides int) (Result, error) {
	if count < 1 {
		return nil, errCount()
	}
	out := make(Result, count)
	for i := range out {
		v, err := r.RollOne(sides)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Roll rolls count dice using the Roller's default sides.
func (r *Roller) Roll(count int) (Result, error) {
	return r.RollMany(count, r.sides)
}

// Do performs the roll described by req.
func (r *Roller) Do(req RollRequest) (Result, error) {
	return r.RollMany(req.Count, req.Sides)
}

var defaultRoller = New()

// RollOne rolls a single die on the process-wide source.
func RollOne(sides int) (int, error) {
	return defaultRoller.RollOne(sides)
}

// RollMany rolls count dice on the process-wide source.
func RollMany(count, sides int) (Result, error) {
	return defaultRoller.RollMany(count, sides)
}
