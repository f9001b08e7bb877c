// Command fretcheck checks guitar chords and tunes strings from the
// microphone or from recorded audio files.
//
//	fretcheck chord Em             record a strum and judge the fingering
//	fretcheck chord G --file g.wav judge a recording
//	fretcheck tab D                show the fingering of a chord
//	fretcheck tune 6               tune the low E string
//	fretcheck guess --file x.mp3   name the chord of a strum
//
// Microphone capture needs a build with -tags portaudio.
package main
