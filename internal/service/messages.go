package service

// Spoken replies.
const (
	msgWhoIsNotFound      = "I couldn't find details on "
	msgGeoUnsupported     = "Geolocation not supported"
	msgLocationPermission = "Enable location permissions"
	msgYouAreIn           = "You are in "
	msgCoordinates        = "Coordinates: %.4f, %.4f"
	msgWeather            = "Current temp %s°C, wind %s m/s"
	msgWeatherFailed      = "Weather lookup failed, allow location and check internet"
	msgCurrency           = "One US dollar is approximately %.2f Pakistani rupees."
	msgCurrencyFailed     = "Currency lookup failed"
	msgRating             = "%s is rated %s out of 10."
	msgRatingFailed       = "Rating lookup failed"
	msgCameraOpened       = "Camera opened"
	msgCameraFailed       = "Cannot open camera"
	msgRecordingStarted   = "Recording started for %d seconds"
	msgRecordingSaved     = "Recording saved"
	msgRecordingFailed    = "Recording failed"
	msgNoteSaved          = "Note saved"
	msgNoteEmpty          = "What should I note?"
	msgTaskAdded          = "Task added"
	msgTaskEmpty          = "What task?"
	msgCapabilities       = "I can open camera, take photos, record voice, make calls, open WhatsApp, take notes, update todos, check weather, currency rates, and search the web."
	msgChooseResult       = "I found multiple results. Say the number of the one you want."
	msgChoiceUnknown      = "Choice not recognized"
	msgSearchUnreachable  = "I could not reach the search service. Try reloading or check internet."
	msgNoAnswer           = "I couldn't find an answer."
	msgUnexpectedError    = "Error processing command: "
)
