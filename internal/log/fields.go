// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	FieldRequestID = "request_id"
	FieldEvent     = "event"
	FieldComponent = "component"

	// Media / pipeline fields
	FieldPlatform = "platform"
	FieldQuality  = "quality"
	FieldURL      = "url"
	FieldTitle    = "title"
)
