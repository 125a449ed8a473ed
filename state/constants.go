package state

var (
	// DefaultMaxSends bounds the send events of one run before it is declared non-convergent.
	DefaultMaxSends = 1_000_000
	// DefaultMaxPasses bounds round-robin passes.
	DefaultMaxPasses = 100_000

	LogPrefix = "dvsim"
)
