/*
Package busyflag tracks named busy flags for concurrent logical tasks, so an
application can ask "is this task in progress?" without scattering ad-hoc
flag variables.

# Basic Usage

Register flags during setup, flip them around work, read them anywhere:

	flags := busyflag.New()
	flags.Add("save")

	flags.Set("save") // defaults to true
	// ... do the save ...
	flags.Set("save", false)

	if flags.IsBusy("save") {
	    // still running
	}

A key is registered iff it is present, whatever its value: presence with
false is not the same as absence. Reads of unregistered keys return false in
the default mode; writes register implicitly.

# Strict Mode

Strict mode requires keys to be registered before use. Remove, Set and Hold
on an unregistered key return an UnregisteredKeyError; Get either
auto-registers the key with its fallback (create-on-access, the default) or
fails the same way:

	flags := busyflag.New(
	    busyflag.WithStrict(true),
	    busyflag.WithCreateOnAccess(false),
	)
	flags.Add("sync")

	if err := flags.Set("snc"); err != nil { // typo caught
	    var uerr *busyflag.UnregisteredKeyError
	    errors.As(err, &uerr)
	}

The typical strict-mode pattern is Add during setup and Remove during
teardown, so misspelled or stale keys fail loudly instead of reading as
"not busy".

# Holds

Overlapping operations can share one flag with reference-counted holds. The
flag stays true until the last hold is released:

	h1, _ := flags.Hold("sync")
	h2, _ := flags.Hold("sync")
	h1.Release()
	flags.IsBusy("sync") // still true
	h2.Release()
	flags.IsBusy("sync") // false

# Default Instance

A process-wide default registry backs the package-level functions
(busyflag.Add, busyflag.Set, ...). Construct your own Manager with New when
you need isolated state, e.g. in tests.

# Reconfiguration

Configure wholesale resets a Manager: entries are replaced (optionally
pre-populated via WithInitialEntries), hold counts are cleared, and modes
are re-derived from the options. It is a full reset, never a merge.

# Diagnostics

Duplicate Add and strict-mode violations emit warnings through an
injectable slog.Logger (slog.Default() unless WithLogger says otherwise).
Warnings accompany errors, they never replace them. Metrics and tracing are
opt-in via WithMetrics and WithSpans; see the observability subpackage.

# Thread Safety

All Manager methods are safe for concurrent use. Range iterates over a
snapshot, so mutating the registry during iteration is safe and does not
affect the current iteration.
*/
package busyflag
