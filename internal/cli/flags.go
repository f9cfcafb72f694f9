package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// AnalyzeCommand — run the attention-flow analysis over a history log.
type AnalyzeCommand struct {
	Input      string `long:"input" description:"Path to history JSON file (- for stdin)" default:"-"`
	Embeddings bool   `long:"embeddings" description:"Use the dense-embedding similarity backend"`
	NoPersist  bool   `long:"no-persist" description:"Do not load or save calibration thresholds"`
	Progress   bool   `long:"progress" description:"Print classification progress to stderr"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show cache contents and calibration state.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// PurgeCacheCommand — delete cached embeddings and persisted thresholds.
type PurgeCacheCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
}
