package ports

// FDistributionPort evaluates the F-distribution quantities a power
// calculation needs. Implementations must be safe for concurrent use.
type FDistributionPort interface {
	// CriticalValue returns the central F inverse survival function: the q with
	// P(F(df1, df2) > q) = alpha.
	CriticalValue(alpha, df1, df2 float64) (float64, error)

	// NoncentralSurvival returns P(F'(df1, df2, lambda) > x).
	NoncentralSurvival(x, df1, df2, lambda float64) (float64, error)
}
