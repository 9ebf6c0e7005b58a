// Package analysis characterizes simulated runs after the fact.
//
//   - [Spectrum]: power spectrum of a sampled series, used on the total
//     energy to expose the period of integration error oscillations
//   - [Divergence]: separation between two runs of the same bodies, for
//     example tree versus direct accelerations
//
// # Divergence Growth
//
// Approximate forces make trajectories drift away from the exact ones.
// In chaotic systems the separation grows exponentially and the fitted
// rate plays the role of a Lyapunov exponent:
//
//	d, err := analysis.Divergence(tree.Snapshots, exact.Snapshots)
//	if d.Rate > 0 {
//	    // separation grows like exp(Rate * t)
//	}
package analysis
