package elo

import "math"

// DefaultBaseRating is the rating given to a competitor that never played.
const DefaultBaseRating = 1200

// A KFactorPolicy gives the K-factor to use for a competitor given its
// current rating. It is resolved at update time, never cached.
type KFactorPolicy interface {
	KFactor(rating float64) (float64, error)
}

// Fixed is a constant K-factor.
type Fixed float64

func (f Fixed) KFactor(float64) (float64, error) {
	return checkKFactor(float64(f))
}

// A Tier applies K to every rating strictly above Above.
type Tier struct {
	Above float64
	K     float64
}

// Tiered picks the K of the first matching tier, tiers are checked in order
// so the highest threshold must come first. Default applies when no tier
// matches.
type Tiered struct {
	Tiers   []Tier
	Default float64
}

func (t Tiered) KFactor(rating float64) (float64, error) {
	for _, v := range t.Tiers {
		if rating > v.Above {
			return checkKFactor(v.K)
		}
	}

	return checkKFactor(t.Default)
}

// Custom computes the K-factor with an arbitrary function.
type Custom func(rating float64) float64

func (c Custom) KFactor(rating float64) (float64, error) {
	if c == nil {
		return 0, ErrInvalidKFactorPolicy
	}

	return checkKFactor(c(rating))
}

func checkKFactor(k float64) (float64, error) {
	if math.IsNaN(k) || math.IsInf(k, 0) || k < 0 {
		return 0, ErrInvalidKFactor
	}

	return k, nil
}

// DefaultKFactorPolicy is the FIDE-like policy: established strong players
// move less.
func DefaultKFactorPolicy() KFactorPolicy {
	return Tiered{
		Tiers: []Tier{
			{Above: 2400, K: 10},
			{Above: 2000, K: 20},
		},
		Default: 32,
	}
}

// Config is the rating policy shared by every rating record.
type Config struct {
	BaseRating int
	KFactor    KFactorPolicy
}

func DefaultConfig() Config {
	return Config{
		BaseRating: DefaultBaseRating,
		KFactor:    DefaultKFactorPolicy(),
	}
}

// KFactorFor resolves the configured policy for the given rating.
func (c Config) KFactorFor(rating int) (float64, error) {
	if c.KFactor == nil {
		return 0, ErrInvalidKFactorPolicy
	}

	return c.KFactor.KFactor(float64(rating))
}
