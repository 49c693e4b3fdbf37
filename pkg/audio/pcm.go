// Package audio implements the microphone capture pipeline and the gapless
// playback scheduler for live voice conversations. All wire audio is 16-bit
// little-endian mono PCM: 16 kHz upstream, 24 kHz downstream.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"time"
)

const (
	// CaptureSampleRate is the microphone sample rate expected upstream.
	CaptureSampleRate = 16000

	// PlaybackSampleRate is the sample rate of model audio downstream.
	PlaybackSampleRate = 24000

	// FrameSamples is the fixed capture frame size in samples.
	FrameSamples = 4096

	channels       = 1
	bytesPerSample = 2
)

// FrameBytes is the capture frame size in bytes.
const FrameBytes = FrameSamples * bytesPerSample

// CaptureMIMEType tags outbound frames with their PCM shape.
const CaptureMIMEType = "audio/pcm;rate=16000"

// EncodePCM base64-encodes a raw PCM buffer for the wire.
func EncodePCM(pcm []byte) string {
	return base64.StdEncoding.EncodeToString(pcm)
}

// DecodePCM decodes a base64 PCM payload from the wire.
func DecodePCM(data string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(data)
}

// PCMDuration returns the playback duration of a raw PCM buffer at the given
// sample rate.
func PCMDuration(pcmLen, sampleRate int) time.Duration {
	if pcmLen <= 0 || sampleRate <= 0 {
		return 0
	}
	samples := pcmLen / (channels * bytesPerSample)
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}

// PCMToWAV wraps raw PCM audio data with a WAV header, for dumping received
// model audio to a playable file.
func PCMToWAV(pcmData []byte, sampleRate, bitsPerSample, chans int) []byte {
	dataLen := len(pcmData)
	byteRate := sampleRate * chans * bitsPerSample / 8
	blockAlign := chans * bitsPerSample / 8

	header := make([]byte, 44)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataLen))
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(chans))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(bitsPerSample))

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataLen))

	return append(header, pcmData...)
}
