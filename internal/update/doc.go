// Package update decides whether a newer JabRef release should be offered
// and drives the notification flow around that decision.
//
// This package handles:
//   - Parsing and ordering release identifiers (Version)
//   - Fetching the published catalog (CatalogFetcher)
//   - Choosing the upgrade target for an installed version (Decide)
//   - Running manual and background checks on a shared executor and
//     reporting through a Notifier (Checker)
//
// The package is isolated from UI concerns. Presentation goes through the
// Notifier interface and persistence through Preferences.
//
// Example usage:
//
//	checker, err := update.NewChecker(update.Config{
//	    Installed:   installed,
//	    Fetcher:     update.NewCatalogFetcher(url),
//	    Preferences: store,
//	    Notifier:    notifier,
//	    Scheduler:   pool,
//	    Dispatcher:  serial,
//	})
//	if err != nil {
//	    // handle error
//	}
//	checker.CheckAfterDelay(30 * time.Second)
package update
