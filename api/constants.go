package api

const (
	// ErrorMessageLimit truncates backend error text returned to clients
	ErrorMessageLimit = 200

	// WatermarkedFilenamePrefix is prepended to the original filename on download
	WatermarkedFilenamePrefix = "watermarked_"
)
