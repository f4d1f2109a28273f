package analysis

import (
	"errors"
	"math"
	"testing"
)

func TestFFT_Impulse(t *testing.T) {
	coeffs, err := FFT([]float64{1, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range coeffs {
		if math.Abs(real(c)-1) > 1e-12 || math.Abs(imag(c)) > 1e-12 {
			t.Errorf("bin %d: expected 1, got %v", i, c)
		}
	}
}

func TestFFT_AnyLength(t *testing.T) {
	coeffs, err := FFT([]float64{1, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(coeffs) != 3 {
		t.Fatalf("expected 3 bins, got %d", len(coeffs))
	}
	for i, c := range coeffs {
		if math.Abs(real(c)-1) > 1e-9 || math.Abs(imag(c)) > 1e-9 {
			t.Errorf("bin %d: expected 1, got %v", i, c)
		}
	}

	if _, err := FFT(nil); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
}

func TestDominantFrequency(t *testing.T) {
	const dt = 1.0 / 60.0
	data := make([]float64, 600)
	for i := range data {
		data[i] = 5 + math.Sin(2*math.Pi*2*float64(i)*dt)
	}

	f, err := DominantFrequency(data, dt)
	if err != nil {
		t.Fatal(err)
	}
	// 1024 padded bins at 60 Hz give a resolution of about 0.06 Hz.
	if math.Abs(f-2) > 0.1 {
		t.Errorf("expected ~2 Hz, got %v", f)
	}
}

func TestPowerSpectrum_TooShort(t *testing.T) {
	if _, err := PowerSpectrum([]float64{1}); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
}

func TestBounces(t *testing.T) {
	vy := []float64{1, 2, 4, -2, -1, 0.5, 2, -1, -0.2, 0.01, 0, 0}
	stats := Bounces(vy, 0.5, 0.1)

	if stats.Count != 2 {
		t.Errorf("expected 2 bounces, got %d", stats.Count)
	}
	if math.Abs(stats.Restitution-0.5) > 1e-12 {
		t.Errorf("expected restitution 0.5, got %v", stats.Restitution)
	}
	if stats.SettleTime != 4.5 {
		t.Errorf("expected settle time 4.5, got %v", stats.SettleTime)
	}
}

func TestBounces_NeverSettles(t *testing.T) {
	stats := Bounces([]float64{3, -3, 3, -3}, 1, 0.1)
	if stats.SettleTime != -1 {
		t.Errorf("expected -1, got %v", stats.SettleTime)
	}
	if stats.Count != 2 {
		t.Errorf("expected 2 bounces, got %d", stats.Count)
	}
}
