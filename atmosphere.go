package ascent

import "math"

const (
	// AtmosphereTop is the upper edge of the modeled atmosphere domain.
	AtmosphereTop = 100e3 // m

	seaLevelTemperature = 288.15  // K
	seaLevelPressure    = 101325  // Pa
	airGasConstant      = 287.053 // J/(kg.K)
	airGamma            = 1.4
	earthRadius         = 6378e3      // m
	earthGM             = 3.98621e14  // m^3/s^2 (G * M_earth)
	g0                  = 9.80665     // m/s^2, standard gravity for Isp
	stefanBoltzmann     = 5.670374e-8 // W/(m^2.K^4)
)

// AtmosphericConditions holds the local free-stream air properties.
type AtmosphericConditions struct {
	Density      float64 // kg/m^3
	Pressure     float64 // Pa
	Temperature  float64 // K
	SpeedOfSound float64 // m/s
}

// US Standard Atmosphere 1976 layers, in geopotential altitude.
var atmLayers = []struct {
	base  float64 // m, geopotential
	temp  float64 // K at base
	press float64 // Pa at base
	lapse float64 // K/m
}{
	{0, 288.15, 101325, -6.5e-3},
	{11e3, 216.65, 22632.1, 0},
	{20e3, 216.65, 5474.89, 1.0e-3},
	{32e3, 228.65, 868.019, 2.8e-3},
	{47e3, 270.65, 110.906, 0},
	{51e3, 270.65, 66.9389, -2.8e-3},
	{71e3, 214.65, 3.95642, -2.0e-3},
}

// atmLayerTop is the geopotential altitude where the layer model ends; the
// band up to AtmosphereTop is treated as isothermal.
const atmLayerTop = 84852.0

// Atmosphere returns the standard-atmosphere conditions at the given
// geometric altitude. The domain is [0, AtmosphereTop]; queries outside it
// fail with an OutOfDomainError.
func Atmosphere(altitude float64) (AtmosphericConditions, error) {
	if altitude < 0 || altitude > AtmosphereTop {
		return AtmosphericConditions{}, OutOfDomainError{Altitude: altitude}
	}
	// Convert geometric to geopotential altitude.
	h := earthRadius * altitude / (earthRadius + altitude)
	var T, p float64
	if h >= atmLayerTop {
		// Isothermal extension of the top layer.
		l := atmLayers[len(atmLayers)-1]
		Ttop := l.temp + l.lapse*(atmLayerTop-l.base)
		pTop := pressureInLayer(l.temp, l.press, l.lapse, atmLayerTop-l.base)
		T = Ttop
		p = pTop * math.Exp(-g0*(h-atmLayerTop)/(airGasConstant*Ttop))
	} else {
		i := len(atmLayers) - 1
		for ; i > 0; i-- {
			if h >= atmLayers[i].base {
				break
			}
		}
		l := atmLayers[i]
		T = l.temp + l.lapse*(h-l.base)
		p = pressureInLayer(l.temp, l.press, l.lapse, h-l.base)
	}
	return AtmosphericConditions{
		Density:      p / (airGasConstant * T),
		Pressure:     p,
		Temperature:  T,
		SpeedOfSound: math.Sqrt(airGamma * airGasConstant * T),
	}, nil
}

func pressureInLayer(tBase, pBase, lapse, dh float64) float64 {
	if lapse == 0 {
		return pBase * math.Exp(-g0*dh/(airGasConstant*tBase))
	}
	return pBase * math.Pow(tBase/(tBase+lapse*dh), g0/(airGasConstant*lapse))
}

// gravity returns local gravitational acceleration at the given altitude.
func gravity(altitude float64) float64 {
	r := earthRadius + altitude
	return earthGM / (r * r)
}
