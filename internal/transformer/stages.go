package transformer

type StageID int

const (
	AspectCrop StageID = iota + 1
	Resize
	Mirror
	Brightness
	Contrast
	Saturation
	Temperature
	BlurSharpen
	ArtisticFilter
	MotionBlur
	Grayscale
	Invert
	Pixelate
	Rotate
	Border
	RoundedCorners
	Shadow
	TextWatermark
	LogoWatermark
	Timestamp
)

// Order is the fixed sequence in which enabled stages run
var Order = []StageID{
	AspectCrop,
	Resize,
	Mirror,
	Brightness,
	Contrast,
	Saturation,
	Temperature,
	BlurSharpen,
	ArtisticFilter,
	MotionBlur,
	Grayscale,
	Invert,
	Pixelate,
	Rotate,
	Border,
	RoundedCorners,
	Shadow,
	TextWatermark,
	LogoWatermark,
	Timestamp,
}

var stageNames = map[StageID]string{
	AspectCrop:     "aspect-crop",
	Resize:         "resize",
	Mirror:         "mirror",
	Brightness:     "brightness",
	Contrast:       "contrast",
	Saturation:     "saturation",
	Temperature:    "temperature",
	BlurSharpen:    "blur-sharpen",
	ArtisticFilter: "artistic-filter",
	MotionBlur:     "motion-blur",
	Grayscale:      "grayscale",
	Invert:         "invert",
	Pixelate:       "pixelate",
	Rotate:         "rotate",
	Border:         "border",
	RoundedCorners: "rounded-corners",
	Shadow:         "shadow",
	TextWatermark:  "text-watermark",
	LogoWatermark:  "logo-watermark",
	Timestamp:      "timestamp",
}

func (id StageID) String() string {
	if name, ok := stageNames[id]; ok {
		return name
	}
	return "unknown"
}
