package barneshut

import (
	"fmt"
	"math"
)

// MaxDepth caps the tree depth under either stop rule. Without it, more
// than Limit coincident bodies would subdivide forever under StopByCount.
const MaxDepth = 64

// MaxDim bounds the dimension so that 2^d orthant indices fit comfortably.
const MaxDim = 8

const (
	DefaultG     = 1.0
	DefaultTheta = 0.5
	DefaultLimit = 8
)

// StopRule decides when subdivision stops.
type StopRule int

const (
	// StopByCount makes a node a leaf once it holds at most Limit bodies.
	StopByCount StopRule = iota
	// StopByDepth makes a node a leaf once its depth reaches Limit.
	StopByDepth
)

func (s StopRule) String() string {
	switch s {
	case StopByCount:
		return "count"
	case StopByDepth:
		return "depth"
	}
	return fmt.Sprintf("StopRule(%d)", int(s))
}

func ParseStopRule(name string) (StopRule, error) {
	switch name {
	case "", "count":
		return StopByCount, nil
	case "depth":
		return StopByDepth, nil
	}
	return 0, fieldError("stop_rule", fmt.Errorf("%w: %q", ErrUnknownRule, name))
}

// Order selects how many multipole terms an accepted cell contributes.
type Order int

const (
	Quadrupole Order = iota
	Monopole
)

func (o Order) String() string {
	switch o {
	case Quadrupole:
		return "quadrupole"
	case Monopole:
		return "monopole"
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

func ParseOrder(name string) (Order, error) {
	switch name {
	case "", "quadrupole":
		return Quadrupole, nil
	case "monopole":
		return Monopole, nil
	}
	return 0, fieldError("order", fmt.Errorf("%w: %q", ErrUnknownRule, name))
}

// Config holds the parameters every node inherits from the root.
type Config struct {
	// G is the gravitational constant.
	G float64
	// Theta is the opening angle; 0 forces exact summation.
	Theta float64
	// Limit is a body count or a depth depending on Stop.
	Limit int
	Stop  StopRule
	Order Order
}

func DefaultConfig() Config {
	return Config{
		G:     DefaultG,
		Theta: DefaultTheta,
		Limit: DefaultLimit,
		Stop:  StopByCount,
		Order: Quadrupole,
	}
}

func (c Config) Validate() error {
	if c.Limit <= 0 {
		return fieldError("limit", fmt.Errorf("%w: %d", ErrInvalidLimit, c.Limit))
	}
	if c.Stop == StopByDepth && c.Limit > MaxDepth {
		return fieldError("limit", fmt.Errorf("%w: depth %d exceeds %d", ErrInvalidLimit, c.Limit, MaxDepth))
	}
	if c.Stop != StopByCount && c.Stop != StopByDepth {
		return fieldError("stop_rule", fmt.Errorf("%w: %v", ErrUnknownRule, c.Stop))
	}
	if c.Order != Quadrupole && c.Order != Monopole {
		return fieldError("order", fmt.Errorf("%w: %v", ErrUnknownRule, c.Order))
	}
	if math.IsNaN(c.Theta) || c.Theta < 0 {
		return fieldError("theta", fmt.Errorf("%w: %v", ErrInvalidTheta, c.Theta))
	}
	if !(c.G > 0) || math.IsInf(c.G, 0) {
		return fieldError("g", fmt.Errorf("%w: %v", ErrInvalidG, c.G))
	}
	return nil
}
