package delay

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/vtripolitakis/task-executor/pkg/cerrors"
)

// Kind identifies one of the supported timing policies
type Kind string

const (
	// NoDelay never pauses between iterations
	NoDelay Kind = "no_delay"
	// RandomDelay pauses a uniform random duration after every iteration
	RandomDelay Kind = "random_delay"
	// FixedDelayBlock pauses a fixed duration after every block of BlockSize iterations
	FixedDelayBlock Kind = "fixed_delay_block"
	// RandomDelayBlock pauses a uniform random duration after every block of BlockSize iterations
	RandomDelayBlock Kind = "random_delay_block"
	// RandomBlockSizeFixedDelay pauses a fixed duration after blocks of randomized size
	RandomBlockSizeFixedDelay Kind = "random_block_size_fixed_delay"
	// RandomBlockSizeRandomDelay pauses a uniform random duration after blocks of randomized size
	RandomBlockSizeRandomDelay Kind = "random_block_size_random_delay"
)

// Kinds lists every supported policy kind in a stable order
func Kinds() []Kind {
	return []Kind{
		NoDelay,
		RandomDelay,
		FixedDelayBlock,
		RandomDelayBlock,
		RandomBlockSizeFixedDelay,
		RandomBlockSizeRandomDelay,
	}
}

// IsValid reports whether k names a supported policy kind
func (k Kind) IsValid() bool {
	switch k {
	case NoDelay, RandomDelay, FixedDelayBlock, RandomDelayBlock, RandomBlockSizeFixedDelay, RandomBlockSizeRandomDelay:
		return true
	}
	return false
}

// Params carries the knobs a policy kind may require. Delays are expressed
// in seconds, matching the scenarios file.
type Params struct {
	MaxDelay     float64
	BlockSize    int
	FixedDelay   float64
	MaxBlockSize int
}

// Policy decides the pause after each completed iteration of one scenario run.
// It owns the counter state of the randomized-block-size kinds, so an instance
// belongs to exactly one run and is discarded afterwards.
type Policy struct {
	kind   Kind
	times  int
	params Params
	rng    *rand.Rand

	counter   int
	threshold int
}

// New validates the inputs and builds the policy for one scenario run.
// The random source is seeded from seed so a run can be reproduced exactly.
func New(kind Kind, times int, params Params, seed int64) (*Policy, error) {
	if err := Validate(kind, times, params); err != nil {
		return nil, err
	}

	p := &Policy{
		kind:   kind,
		times:  times,
		params: params,
		rng:    rand.New(rand.NewSource(seed)),
	}
	// the first block size is drawn up front, later draws happen at each reset
	if kind == RandomBlockSizeFixedDelay || kind == RandomBlockSizeRandomDelay {
		p.threshold = p.drawThreshold()
	}
	return p, nil
}

// Validate checks that every parameter required by the kind is present and
// within its valid range. All misconfigurations surface here, never at
// decision time.
func Validate(kind Kind, times int, params Params) error {
	if !kind.IsValid() {
		return cerrors.Error{
			ErrorCode: cerrors.ErrorTypeConfiguration,
			Reason:    fmt.Sprintf("policy kind '%s' is not supported, must be one of [%s]", kind, joinKinds()),
		}
	}
	if times < 0 {
		return cerrors.Error{
			ErrorCode: cerrors.ErrorTypeConfiguration,
			Reason:    fmt.Sprintf("times must be greater than or equal to 0, got %d", times),
		}
	}

	switch kind {
	case RandomDelay:
		return validateMaxDelay(params)
	case FixedDelayBlock:
		if err := validateBlockSize(params); err != nil {
			return err
		}
		return validateFixedDelay(params)
	case RandomDelayBlock:
		if err := validateBlockSize(params); err != nil {
			return err
		}
		return validateMaxDelay(params)
	case RandomBlockSizeFixedDelay:
		if err := validateMaxBlockSize(params); err != nil {
			return err
		}
		return validateFixedDelay(params)
	case RandomBlockSizeRandomDelay:
		if err := validateMaxBlockSize(params); err != nil {
			return err
		}
		return validateMaxDelay(params)
	}
	return nil
}

// NextDelay reports the pause to apply after iteration i has completed,
// for i in [0, times). It never reports a pause after the final iteration.
func (p *Policy) NextDelay(i int) time.Duration {
	if i < 0 || i >= p.times {
		return 0
	}
	if i == p.times-1 {
		return 0
	}

	switch p.kind {
	case RandomDelay:
		return p.randomDelay()
	case FixedDelayBlock:
		if (i+1)%p.params.BlockSize == 0 {
			return secondsToDuration(p.params.FixedDelay)
		}
	case RandomDelayBlock:
		if (i+1)%p.params.BlockSize == 0 {
			return p.randomDelay()
		}
	case RandomBlockSizeFixedDelay, RandomBlockSizeRandomDelay:
		p.counter++
		if p.counter < p.threshold {
			return 0
		}
		p.counter = 0
		p.threshold = p.drawThreshold()
		if p.kind == RandomBlockSizeFixedDelay {
			return secondsToDuration(p.params.FixedDelay)
		}
		return p.randomDelay()
	}
	return 0
}

// Kind returns the policy kind the instance was built for
func (p *Policy) Kind() Kind {
	return p.kind
}

func (p *Policy) randomDelay() time.Duration {
	return time.Duration(p.rng.Float64() * p.params.MaxDelay * float64(time.Second))
}

func (p *Policy) drawThreshold() int {
	return p.rng.Intn(p.params.MaxBlockSize) + 1
}

// maxDelaySeconds is the largest delay that still converts to a time.Duration
const maxDelaySeconds = float64(int64(math.MaxInt64) / int64(time.Second))

func validateMaxDelay(params Params) error {
	if !isDelaySeconds(params.MaxDelay) {
		return cerrors.Error{
			ErrorCode: cerrors.ErrorTypeConfiguration,
			Reason:    fmt.Sprintf("max delay must be a number of seconds between 0 and %v, got %v", maxDelaySeconds, params.MaxDelay),
		}
	}
	return nil
}

func validateFixedDelay(params Params) error {
	if !isDelaySeconds(params.FixedDelay) {
		return cerrors.Error{
			ErrorCode: cerrors.ErrorTypeConfiguration,
			Reason:    fmt.Sprintf("fixed delay must be a number of seconds between 0 and %v, got %v", maxDelaySeconds, params.FixedDelay),
		}
	}
	return nil
}

func isDelaySeconds(f float64) bool {
	return !math.IsNaN(f) && f >= 0 && f <= maxDelaySeconds
}

func validateBlockSize(params Params) error {
	if params.BlockSize < 1 {
		return cerrors.Error{
			ErrorCode: cerrors.ErrorTypeConfiguration,
			Reason:    fmt.Sprintf("block size must be at least 1, got %d", params.BlockSize),
		}
	}
	return nil
}

func validateMaxBlockSize(params Params) error {
	if params.MaxBlockSize < 1 {
		return cerrors.Error{
			ErrorCode: cerrors.ErrorTypeConfiguration,
			Reason:    fmt.Sprintf("max block size must be at least 1, got %d", params.MaxBlockSize),
		}
	}
	return nil
}

func joinKinds() string {
	kinds := Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
