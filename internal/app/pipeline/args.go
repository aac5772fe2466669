package pipeline

// Fixed waveform format the transcriber expects. Changing any of these
// silently degrades recognition quality.
const (
	SampleRate  = "16000"
	Channels    = "1"
	SampleCodec = "pcm_s16le"
)

// NormalizerArgs builds the ffmpeg argument vector that resamples input to
// a 16 kHz mono 16-bit PCM waveform at output, overwriting it if present.
func NormalizerArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-ar", SampleRate,
		"-ac", Channels,
		"-c:a", SampleCodec,
		outputPath,
	}
}

// TranscriberArgs builds the whisper.cpp argument vector. The transcriber
// writes <outputBase>.txt.
func TranscriberArgs(modelPath, wavPath, outputBase string) []string {
	return []string{
		"-m", modelPath,
		"-f", wavPath,
		"-otxt",
		"-of", outputBase,
	}
}
