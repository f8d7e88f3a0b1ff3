package tui

// viewID names the mutually exclusive screens.
type viewID int

const (
	viewUnlock viewID = iota
	viewLanding
	viewAuthChoice
	viewNeedsInit
	viewExplore
	viewCreatorForm
	viewSupporterForm
	viewProfile
)

// dirStatus tracks what the last directory fetch established. A network
// failure changes nothing here; only a typed not-found marks the account
// missing.
type dirStatus int

const (
	dirUnknown dirStatus = iota
	dirReady
	dirMissing
)

// flags holds the user's navigation intent. Screens are never stored;
// they are re-derived from these plus session and directory state, so an
// invalid combination of intents cannot produce an invalid screen.
type flags struct {
	exploring         bool
	creatingCreator   bool
	creatingSupporter bool
	viewing           bool
	selectedCreator   int
	ownCreatorIndex   int // index of the caller's creator record, -1 if none
	hasSupporter      bool
}

func newFlags() flags {
	return flags{ownCreatorIndex: -1}
}

// deriveScreen computes the active screen from the current state. Pure:
// calling it twice with the same inputs yields the same screen.
func deriveScreen(unlocked, connected bool, ds dirStatus, f flags) viewID {
	if !unlocked {
		return viewUnlock
	}
	if !connected || ds == dirUnknown {
		return viewLanding
	}
	if f.creatingCreator {
		return viewCreatorForm
	}
	if f.creatingSupporter {
		return viewSupporterForm
	}
	if f.viewing {
		return viewProfile
	}
	if f.exploring {
		return viewExplore
	}
	if ds == dirMissing {
		return viewNeedsInit
	}
	return viewAuthChoice
}
