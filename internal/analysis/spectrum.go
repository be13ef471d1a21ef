package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum removes the mean, applies a Hann window and returns |X(f)|^2
// for the non-negative frequencies. sampleRate is in frames per second.
func PowerSpectrum(series []float64, sampleRate float64) Spectrum {
	n := len(series)
	if n < 2 || sampleRate <= 0 {
		return Spectrum{}
	}

	data := make([]float64, n)
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)
	for i, v := range series {
		data[i] = v - mean
	}
	window.Apply(data, window.Hann)

	coeffs := fft.FFTReal(data)
	bins := n/2 + 1
	ps := Spectrum{
		Freqs: make([]float64, bins),
		Power: make([]float64, bins),
	}
	for k := 0; k < bins; k++ {
		ps.Freqs[k] = float64(k) * sampleRate / float64(n)
		a := cmplx.Abs(coeffs[k])
		ps.Power[k] = a * a
	}
	return ps
}

// Dominant returns the non-DC bin with the most power.
func (s Spectrum) Dominant() (freq, power float64) {
	best := -1
	for k := 1; k < len(s.Power); k++ {
		if best < 0 || s.Power[k] > s.Power[best] {
			best = k
		}
	}
	if best < 0 {
		return 0, 0
	}
	return s.Freqs[best], s.Power[best]
}

// Band sums power between lo and hi Hz inclusive.
func (s Spectrum) Band(lo, hi float64) float64 {
	total := 0.0
	for k, f := range s.Freqs {
		if f >= lo && f <= hi {
			total += s.Power[k]
		}
	}
	return total
}

type Summary struct {
	Mean, Std, Min, Max float64
	N                   int
}

func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	s := Summary{Min: math.Inf(1), Max: math.Inf(-1), N: len(series)}
	for _, v := range series {
		s.Mean += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean /= float64(s.N)
	for _, v := range series {
		d := v - s.Mean
		s.Std += d * d
	}
	s.Std = math.Sqrt(s.Std / float64(s.N))
	return s
}
