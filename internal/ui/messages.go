package ui

const (
	MsgAppTitle       = "PriceSnap"
	MsgWelcomeSteps   = "1. Take a photo of any object\n2. Our AI will analyze it\n3. Get an estimated price!"
	MsgWelcomeNote    = "Note: This is just for fun! Prices are estimates and may vary."
	MsgStart          = "Let's Get Started!"
	MsgQuit           = "Quit"
	MsgCaptureTitle   = "Take a Photo"
	MsgCapturePrompt  = "Snap a clear photo of any object"
	MsgCaptureHelp    = "Image file path, http(s) URL, data URI, or camera[:N]"
	MsgAnalyzing      = "Analyzing your object..."
	MsgResultTitle    = "Price Prediction"
	MsgResultSubtitle = "Here's our best guess!"
	MsgTryAnother     = "Try another"
	MsgAnalysisDone   = "Analysis complete!"
	MsgAnalysisFailed = "Sorry, we couldn't analyze this image"
	MsgAnalysisHint   = "Please try again with a different photo"
	MsgLocalFallback  = "The vision model was unavailable, so this estimate comes from the on-device classifier."
	MsgCaptureFailed  = "Couldn't read that image: %s"
)
