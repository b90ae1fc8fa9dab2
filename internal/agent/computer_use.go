package agent

// ComputerUseConfig describes display configuration for computer use tools.
type ComputerUseConfig struct {
	DisplayWidthPx  int
	DisplayHeightPx int
	DisplayNumber   int
}

// ComputerUseConfigProvider is an optional interface a registered Tool can
// implement to expose computer-use display configuration. The Anthropic
// provider checks for it on every registered tool to decide whether to route
// a completion through the beta computer-use API.
type ComputerUseConfigProvider interface {
	ComputerUseConfig() *ComputerUseConfig
}
