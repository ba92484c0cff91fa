// Package spectral estimates power spectral densities of time series and
// assembles them into spectrograms.
//
// Estimation partitions the input into windowed, overlapping segments and
// averages their periodograms: the mean for Welch and Bartlett, the
// bias-corrected median for Median, and the average of the two
// alternating-segment medians for MedianMean. The Fourier work runs on a
// pluggable Backend. The built-in Native backend transforms with algo-fft;
// a GoDSP fallback delegates to go-dsp's Pwelch for the mean-averaged
// methods. Results are frequency series from DC to Nyquist with unit
// input^2/Hz.
//
// Spectrograms stack stride-partitioned estimates over time. Grid helpers
// compute time percentiles, per-bin ratios against a reference, and
// resampling onto log-spaced frequency axes.
package spectral
