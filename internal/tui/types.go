package tui

type stage int

const (
	stageInput stage = iota
	stageLoading
	stageDisplay
	stageSaveName
)

const heroTagline = "Point, click, and drag to capture page elements."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	headerHeight              = 3
	footerHeight              = 2
	maxSelectorLineWidth      = 100
)
