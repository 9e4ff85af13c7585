package ascent

import "fmt"

// ConfigurationError reports an invalid or missing parameter. It is always
// raised before a simulation starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// OutOfDomainError reports an atmosphere query outside the modeled range.
type OutOfDomainError struct {
	Altitude float64
}

func (e OutOfDomainError) Error() string {
	return fmt.Sprintf("altitude %.1f m outside atmosphere domain [0, %.0f] m", e.Altitude, AtmosphereTop)
}

// DuplicateComponentError reports an attempt to add a component whose name
// is already registered.
type DuplicateComponentError struct {
	Name string
}

func (e DuplicateComponentError) Error() string {
	return fmt.Sprintf("component %q already registered", e.Name)
}

// UnknownComponentError reports an update or removal of an unregistered
// component.
type UnknownComponentError struct {
	Name string
}

func (e UnknownComponentError) Error() string {
	return fmt.Sprintf("component %q not registered", e.Name)
}

// ThermalDivergenceError reports a non-physical fin temperature. The run in
// progress is aborted; Step is the integration step at which it occurred.
type ThermalDivergenceError struct {
	Step        int
	Temperature float64
}

func (e ThermalDivergenceError) Error() string {
	return fmt.Sprintf("thermal divergence at step %d: T=%g K", e.Step, e.Temperature)
}

// RunawayFlightError reports that the post-apogee safety bound elapsed
// without landing. The partial time series is still returned for inspection.
type RunawayFlightError struct {
	Steps int
}

func (e RunawayFlightError) Error() string {
	return fmt.Sprintf("no landing within %d post-apogee cycles", e.Steps)
}
