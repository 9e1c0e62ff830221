package update

// Decide returns the version the installed build should be upgraded to.
// Only catalog entries strictly newer than installed qualify. A stable
// installation is never offered an unstable release; an installation on a
// pre-release track may be. The second result is false when nothing
// qualifies.
func Decide(installed Version, catalog []Version) (Version, bool) {
	var (
		best  Version
		found bool
	)
	for _, candidate := range catalog {
		if !candidate.GreaterThan(installed) {
			continue
		}
		if installed.IsStable() && !candidate.IsStable() {
			continue
		}
		if !found || candidate.GreaterThan(best) {
			best = candidate
			found = true
		}
	}
	return best, found
}
