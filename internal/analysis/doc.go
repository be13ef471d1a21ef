// Package analysis characterises recorded scene series.
//
//   - [PowerSpectrum]: windowed spectrum of a per-frame series
//   - [Spectrum.Dominant]: strongest non-DC frequency
//   - [Summarize]: mean, spread and range of a series
//
// # Periodicity
//
// The body pulse and the ring period show up as peaks in the kinetic
// energy spectrum of a scripted run:
//
//	ps := analysis.PowerSpectrum(energy, 60)
//	freq, _ := ps.Dominant()
//	period := 1 / freq // seconds
package analysis
