package replay

// Entry is a single experience transition collected from one environment
// step. State and NextState must have the same length, and the producer is
// expected to keep shapes consistent for the lifetime of a buffer; the
// buffer stores whatever it is handed without re-validating per call.
//
// The buffer takes ownership of the State and NextState slices on append.
// Callers must not mutate them afterwards.
type Entry struct {
	State     []float32
	Action    int
	Reward    float32
	NextState []float32
	Done      bool
}
