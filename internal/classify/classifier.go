package classify

import (
	"encoding/base64"
	"path/filepath"
	"strings"

	"whatsweb/internal/constants"
	"whatsweb/internal/models"
)

// Intent identifies how a message should be rendered.
type Intent string

const (
	IntentPlainText   Intent = "text"
	IntentImage       Intent = "image"
	IntentVideo       Intent = "video"
	IntentDocument    Intent = "document"
	IntentUnknownBlob Intent = "blob"
)

// RenderIntent is the classifier's decision for a single message. Exactly
// one intent is produced per message; it is recomputed on every render
// pass and never stored.
type RenderIntent struct {
	Kind      Intent
	Text      string
	Source    string
	Name      string
	Icon      string
	SizeBytes int
}

// rule is a single predicate→result step. Rules run in order and the
// first match wins; a rule that cannot produce a usable intent must
// decline so later rules get a chance.
type rule struct {
	name  string
	match func(msg *models.Message) (RenderIntent, bool)
}

var rules = []rule{
	{name: "video", match: matchVideo},
	{name: "document", match: matchDocument},
	{name: "image", match: matchImage},
	{name: "sniffed-blob", match: matchSniffedBlob},
}

// Classify maps a message to its render intent. It is total: any record,
// however malformed, degrades to plain text or a generic blob.
func Classify(msg *models.Message) RenderIntent {
	for _, r := range rules {
		if intent, ok := r.match(msg); ok {
			return intent
		}
	}
	return RenderIntent{Kind: IntentPlainText, Text: textOrCaption(msg)}
}

func matchVideo(msg *models.Message) (RenderIntent, bool) {
	if msg.Type != models.MessageTypeVideo || msg.MediaData == "" {
		return RenderIntent{}, false
	}
	text := msg.Body
	if strings.HasPrefix(text, "data:") || strings.HasPrefix(text, "/9j/") {
		// The body itself is encoded payload, not prose.
		text = msg.Caption
	}
	return RenderIntent{Kind: IntentVideo, Source: msg.MediaData, Text: text}, true
}

func matchDocument(msg *models.Message) (RenderIntent, bool) {
	if !isDocumentType(msg.Type) && !isDocumentMimetype(msg.Mimetype) {
		return RenderIntent{}, false
	}
	name := msg.Filename
	if name == "" {
		name = msg.Body
	}
	if name == "" {
		name = "file"
	}
	return RenderIntent{
		Kind:   IntentDocument,
		Name:   name,
		Icon:   IconForExtension(extensionOf(name)),
		Source: msg.MediaData,
		Text:   msg.Caption,
	}, true
}

func matchImage(msg *models.Message) (RenderIntent, bool) {
	// Stickers are webp payloads and render through the image path.
	bodyIsImage := strings.HasPrefix(msg.Body, "data:image") || strings.HasPrefix(msg.Body, "/9j/")
	if msg.Type != models.MessageTypeImage && msg.Type != models.MessageTypeSticker && !bodyIsImage {
		return RenderIntent{}, false
	}

	var source string
	switch {
	case strings.HasPrefix(msg.MediaData, "data:image"):
		source = msg.MediaData
	case strings.HasPrefix(msg.Body, "data:image"):
		source = msg.Body
	case strings.HasPrefix(msg.Body, "/9j/"):
		source = "data:image/jpeg;base64," + msg.Body
	case msg.MediaData != "":
		source = msg.MediaData
	}
	if source == "" {
		// Declared as image but nothing renderable; let the remaining
		// rules inspect the body.
		return RenderIntent{}, false
	}

	text := msg.Caption
	if !bodyIsImage && source == msg.MediaData && msg.Caption == "" {
		text = msg.Body
	}
	return RenderIntent{Kind: IntentImage, Source: source, Text: text}, true
}

// matchSniffedBlob catches large untyped payloads that arrived as bare
// body text. Signature checks run before the generic fallback so a
// mislabeled PDF or image is not offered as an opaque download.
func matchSniffedBlob(msg *models.Message) (RenderIntent, bool) {
	body := msg.Body
	if len(body) <= constants.BlobSniffMinBodyLength || !hasLongRun(body, constants.BlobSniffMinRunLength) {
		return RenderIntent{}, false
	}

	clean := cleanEncodedPayload(body)
	switch {
	case strings.Contains(body, "JVBERi"):
		return RenderIntent{
			Kind:   IntentDocument,
			Name:   "PDF",
			Icon:   IconForExtension("pdf"),
			Source: "data:application/pdf;base64," + clean,
		}, true
	case strings.Contains(body, "/9j/"), strings.Contains(body, "iVBOR"):
		text := msg.Caption
		return RenderIntent{
			Kind:   IntentImage,
			Source: "data:image/jpeg;base64," + clean,
			Text:   text,
		}, true
	default:
		return RenderIntent{
			Kind:      IntentUnknownBlob,
			Source:    "data:application/octet-stream;base64," + clean,
			SizeBytes: decodedSize(clean),
		}, true
	}
}

func textOrCaption(msg *models.Message) string {
	if msg.Body != "" {
		return msg.Body
	}
	return msg.Caption
}

func isDocumentType(t models.MessageType) bool {
	return t == models.MessageTypeDocument || t == models.MessageTypeApplication
}

func isDocumentMimetype(mimetype string) bool {
	if mimetype == "" {
		return false
	}
	for _, marker := range []string{"pdf", "document", "spreadsheet", "presentation"} {
		if strings.Contains(mimetype, marker) {
			return true
		}
	}
	return false
}

// hasLongRun reports whether s contains a contiguous run of at least n
// non-whitespace characters, the signal that distinguishes an encoded
// blob from prose.
func hasLongRun(s string, n int) bool {
	run := 0
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			run = 0
			continue
		}
		run++
		if run >= n {
			return true
		}
	}
	return false
}

// decodedSize returns the exact byte count the payload decodes to.
// DecodedLen alone over-counts padded input by the padding width.
func decodedSize(s string) int {
	size := base64.StdEncoding.DecodedLen(len(s))
	for i := len(s) - 1; i >= 0 && s[i] == '='; i-- {
		size--
	}
	return size
}

// cleanEncodedPayload strips the leading dots and whitespace some
// providers prepend to inline payloads.
func cleanEncodedPayload(s string) string {
	return strings.TrimLeft(s, ". \t\n\r")
}

func extensionOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
