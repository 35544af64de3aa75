package constants

// Intro Overlay
const (
	// IntroFrameBudget is the number of paint ticks for each fade direction
	IntroFrameBudget = 60
)

// Diagnostics Overlay Layout (terminal cells)
const (
	DiagOriginX    = 1
	DiagRowFPS     = 1
	DiagRowMemory  = 2
	DiagRowSprites = 3
	DiagRowLog     = 4

	// DiagLogLines is how many buffered log lines the overlay shows at most
	DiagLogLines = 8
)

// DiagFontCharset is the glyph set prebuilt by the diagnostics font
const DiagFontCharset = " MEORYFPSBITED0123456789:.of,K"

// Metric keys shared between the orchestrator, scene controller and diagnostics feed
const (
	MetricFPS          = "display.fps"
	MetricFrames       = "display.frames"
	MetricMemoryUsedMB = "display.memory.used_mb"
	MetricMemoryMaxMB  = "display.memory.max_mb"
	MetricIntroActive  = "display.intro"
	MetricSprites      = "scene.sprites"
	MetricDesktops     = "scene.desktops"
	MetricScreen       = "scene.screen"
	MetricProcesses    = "engine.processes"
	MetricTweens       = "engine.tweens"
	MetricTicks        = "engine.ticks"
)
