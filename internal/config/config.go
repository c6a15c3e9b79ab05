package config

// frame geometry is portrait 9:16, the shorts format
const (
	FrameWidth  = 1080
	FrameHeight = 1920
	FrameRate   = 30

	// reference coin, US dime
	DimeMM = 17.9
	DimePx = 280

	// Path
	PathConfigFile   = "caratreel.yaml"
	PathFramesDir    = "tmp/frames"
	PathOutputDir    = "generated_videos"
	PathUploadLog    = "upload_log.json"
	FramePrefix      = "out_"
	FramePattern     = FramePrefix + "%08d.png"
	MetadataSuffix   = "_metadata.json"
	VideoExt         = ".mp4"
	DefaultWebsite   = "caratcompare.co"
	DefaultVoiceID   = "21m00Tcm4TlvDq8ikWAM" // Rachel
	DefaultTTSModel  = "eleven_turbo_v2_5"
	EnvElevenLabsKey = "ELEVENLABS_API_KEY"

	// youtube
	UploadMaxVideos    = 50
	UploadDelaySeconds = 10
	UploadCategoryID   = "26" // Howto & Style
	UploadMaxTags      = 15
	UploadMaxTitleLen  = 100
)

// Layouts
const (
	LayoutVertical = "vertical"
	LayoutSideways = "sideways"
)

// Narration providers
const (
	NarratorElevenLabs = "elevenlabs"
	NarratorGTTS       = "gtts"
	NarratorNone       = "none"
)
