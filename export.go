package ascent

import (
	"fmt"
	"os"
	"time"
)

// ExportConfig configures state streaming for a run. The simulator itself
// performs no file I/O; when a filename is set, a dedicated goroutine
// drains the run's state channel into a CSV trace for downstream plotting.
type ExportConfig struct {
	Filename     string
	OutputDir    string
	Timestamp    bool                        // append a timestamp to the filename
	CSVAppend    func(st FlightState) string // custom columns (no leading comma)
	CSVAppendHdr func() string               // header for the custom columns
}

// IsUseless reports whether this configuration exports anything at all.
func (c ExportConfig) IsUseless() bool {
	return c.Filename == ""
}

// StreamStates reads states from the channel until it closes and writes the
// CSV trace. It is meant to run in its own goroutine, one per run.
func StreamStates(conf ExportConfig, stateChan <-chan (FlightState)) {
	if conf.IsUseless() {
		for range stateChan {
			// Drain so the producer never blocks.
		}
		return
	}
	name := conf.Filename
	if conf.Timestamp {
		name = fmt.Sprintf("%s-%s", name, time.Now().Format("2006-01-02-15.04.05"))
	}
	dir := conf.OutputDir
	if dir == "" {
		dir = "."
	}
	f, err := os.Create(fmt.Sprintf("%s/%s.csv", dir, name))
	if err != nil {
		panic(err)
	}
	defer f.Close()
	hdr := "time,altitude,vVertical,vHorizontal,mass,propellant,finTemp,mach,dynamicPressure,phase"
	if conf.CSVAppendHdr != nil {
		hdr += "," + conf.CSVAppendHdr()
	}
	f.WriteString(hdr + "\n")
	for st := range stateChan {
		line := fmt.Sprintf("%f,%f,%f,%f,%f,%f,%f,%f,%f,%s",
			st.Time, st.Altitude, st.VerticalVelocity, st.HorizontalVelocity,
			st.Mass, st.Propellant, st.FinTemperature, st.Mach, st.DynamicPressure, st.Phase)
		if conf.CSVAppend != nil {
			line += "," + conf.CSVAppend(st)
		}
		f.WriteString(line + "\n")
	}
}
