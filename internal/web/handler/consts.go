package handler

const (
	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"

	// APIPath prefixes every JSON route.
	APIPath = "/api"

	// ErrNilACSFatalLogMsg is used if app, cfg or the settings service is nil.
	ErrNilACSFatalLogMsg = "app, cfg or settings service is nil"
)
