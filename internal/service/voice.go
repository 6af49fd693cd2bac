package service

import "axon-assistant/internal/dto"

const voiceLang = "en-US"

// voiceProfile returns the speech settings for a voice mode. Unknown modes
// fall back to the configured default.
func voiceProfile(mode, fallback string) dto.VoiceProfileDTO {
	if mode == "" {
		mode = fallback
	}
	if mode == dto.VoiceJarvis {
		return dto.VoiceProfileDTO{Rate: 0.95, Pitch: 0.9, Lang: voiceLang}
	}
	return dto.VoiceProfileDTO{Rate: 1.0, Pitch: 1.0, Lang: voiceLang}
}
