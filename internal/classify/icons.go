package classify

// extensionIcons maps document file extensions to their display icon.
var extensionIcons = map[string]string{
	"pdf":  "📕",
	"doc":  "📘",
	"docx": "📘",
	"xls":  "📗",
	"xlsx": "📗",
	"ppt":  "📙",
	"pptx": "📙",
	"zip":  "🗜️",
	"rar":  "🗜️",
	"7z":   "🗜️",
	"mp3":  "🎵",
	"wav":  "🎵",
	"ogg":  "🎵",
}

const genericDocumentIcon = "📄"

// IconForExtension returns the display icon for a document with the
// given file extension; unknown extensions get the generic icon.
func IconForExtension(ext string) string {
	if icon, ok := extensionIcons[ext]; ok {
		return icon
	}
	return genericDocumentIcon
}
